/*
Package token implements a fungible asset ledger.

Every token is identified by its ticker. A ledger tracks balances per
address and allowances that permit a spender to move funds on the owner's
behalf, up to the granted limit. New funds can be issued only by the minter
declared in the token definition.
*/
package token
