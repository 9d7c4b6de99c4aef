/*
Package vaulttest provides helpers and mocks for testing vault extensions.
*/
package vaulttest
