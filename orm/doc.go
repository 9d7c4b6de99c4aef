/*
Package orm provides an easy to use db wrapper.

Models are protobuf messages that know how to validate themselves. They
are stored in a ModelBucket under a bucket specific prefix:

	<bucket>:<key>

Secondary indexes are maintained on every write. Each index entry points
to the primary key of the model and is stored as

	<bucket>._<index>:<index key><primary key>

An index is never unique, any number of models can share the same index
key. Sequence provides monotonic 8 byte identifiers that keep their
ordering when compared as bytes.
*/
package orm
