/*
Package app contains the infrastructure that executes messages against
the application state.

The Executor is the single writer of the state. Every call is processed
to completion before the next one is admitted. A call is first checked
and then delivered on a cache of the committed state. The cache is
written and committed only if both steps succeed, so a failed call
leaves no trace in the state.
*/
package app
