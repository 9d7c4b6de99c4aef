/*
Package x contains the extensions of the vault.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together by the app package into a single
executor.

This package provides the authentication helpers shared by all
extensions. Sub-packages implement the token ledger and the loan
escrow.
*/
package x
