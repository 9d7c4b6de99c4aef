package orm

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
// Models are serialized using protobuf.
type Model interface {
	proto.Message
	Validate() error
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work for
// us. Instead we use a placeholder type and the validation is done during the
// runtime.
type ModelSlicePtr interface{}

// Indexer calculates the secondary index key of a model. Returning nil key
// excludes the model from the index.
type Indexer func(Model) ([]byte, error)

// newModel returns a new, empty instance of the same type as given model.
func newModel(prototype Model) Model {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface().(Model)
}

// validateSlicePtr ensures that given destination is a pointer to a slice of
// models of the expected type. Both []T and []*T are accepted.
func validateSlicePtr(dest ModelSlicePtr, prototype Model) (reflect.Value, error) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Slice {
		return v, errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice of models, got %T", dest)
	}
	want := reflect.TypeOf(prototype).Elem()
	elem := v.Elem().Type().Elem()
	if elem != want && elem != reflect.PtrTo(want) {
		return v, errors.Wrapf(errors.ErrType, "destination element must be %s, got %s", want, elem)
	}
	return v.Elem(), nil
}

// appendModel appends given model to a slice value, dereferencing it if the
// slice holds values.
func appendModel(slice reflect.Value, m Model) {
	val := reflect.ValueOf(m)
	if slice.Type().Elem().Kind() != reflect.Ptr {
		val = val.Elem()
	}
	slice.Set(reflect.Append(slice, val))
}
