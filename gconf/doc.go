/*
Package gconf keeps one configuration entity per extension in the database,
under the "_c:<package name>" key.

Genesis loads it with InitConfig. Afterwards the configuration owner changes
it by sending a PatchMsg processed by UpdateHandler.
*/
package gconf
