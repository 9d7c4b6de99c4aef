package vault

import (
	"encoding/json"
	"reflect"

	"github.com/iov-one/vault/errors"
)

// Msg is a request routed by its path. Validate checks the content
// without reading state.
type Msg interface {
	Path() string
	Validate() error
}

// Tx gives access to the message of a single call.
type Tx interface {
	GetMsg() (Msg, error)
}

// LoadMsg copies the message of tx into dst, which must point to the
// concrete message type, and validates it.
func LoadMsg(tx Tx, dst interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get message")
	}

	out := reflect.ValueOf(dst)
	if out.Kind() != reflect.Ptr || out.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination %T is not a pointer", dst)
	}
	in := reflect.ValueOf(msg)
	if msg == nil || (in.Kind() == reflect.Ptr && in.IsNil()) {
		return errors.Wrap(errors.ErrState, "nil message")
	}
	if in.Kind() == reflect.Ptr {
		in = in.Elem()
	}
	if !in.Type().AssignableTo(out.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", dst, msg)
	}
	out.Elem().Set(in)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// Handler processes the messages of one or more paths. Check runs a call
// against a throw away copy of the state, Deliver runs it for real.
type Handler interface {
	Checker
	Deliverer
}

type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around every handler, for concerns like logging or panic
// recovery. It calls next to continue processing.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds a handler to the path of a message.
type Registry interface {
	Handle(m Msg, h Handler)
}

type CheckResult struct {
	Log string
}

type DeliverResult struct {
	// Data is a machine readable result, like the key of a created loan.
	Data   []byte
	Log    string
	Events []Event
}

// Event describes a state change made by a delivered call.
type Event struct {
	Type       string
	Attributes []Attribute
}

type Attribute struct {
	Key   string
	Value string
}

// NewEvent builds an event from key value pairs. It panics on an odd
// number of arguments.
func NewEvent(typ string, keyvals ...string) Event {
	if len(keyvals)%2 != 0 {
		panic("event attributes must be key value pairs")
	}
	ev := Event{Type: typ}
	for i := 0; i < len(keyvals); i += 2 {
		ev.Attributes = append(ev.Attributes, Attribute{Key: keyvals[i], Value: keyvals[i+1]})
	}
	return ev
}

// Attr returns the first attribute named key.
func (e Event) Attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Options is the genesis document, one raw JSON value per section.
type Options map[string]json.RawMessage

// ReadOptions decodes the section key into obj. A missing section leaves
// obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

type initializers []Initializer

// ChainInitializers runs every initializer in order and stops at the
// first failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

func (all initializers) FromGenesis(opts Options, db KVStore) error {
	for _, i := range all {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
