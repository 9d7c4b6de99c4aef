/*
Package loanescrow implements a collateralized lending escrow.

A borrower requests a loan by pledging an amount of the collateral token.
The escrow pulls the collateral into its custody, using an allowance the
borrower granted beforehand, and disburses the principal in the loan token
from its own holdings. Loan tokens are supplied to the escrow by lenders.

A loan is active for a fixed term. Before the deadline the borrower can
repay the principal and get the collateral back. At or after the deadline
the loan can only be settled as defaulted, in which case the collateral is
forfeited: it either stays in the escrow custody or is moved to the
configured forfeit destination.

Repaid and defaulted loans are terminal and are kept as an audit record.
*/
package loanescrow
