package vaulttest

import "github.com/iov-one/vault"

// Tx wraps a single message. A non nil Err is returned instead of the
// message.
type Tx struct {
	Msg vault.Msg
	Err error
}

var _ vault.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (vault.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

// Msg is routed by RoutePath and fails validation with Err.
type Msg struct {
	RoutePath string
	Err       error
}

var _ vault.Msg = (*Msg)(nil)

func (m *Msg) Path() string    { return m.RoutePath }
func (m *Msg) Validate() error { return m.Err }
