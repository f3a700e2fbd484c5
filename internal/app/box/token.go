package box

import "errors"

var errNoToken = errors.New("no access token in skill invocation")

// Tokens are the scoped access tokens delivered with a skill invocation.
type Tokens struct {
	Read  string
	Write string
}

// ForRead returns the token used to download content.
func (t Tokens) ForRead() (string, error) {
	if t.Read == "" {
		return "", errNoToken
	}
	return t.Read, nil
}

// ForWrite returns the token used to write metadata, preferring the write
// token and falling back to the read token.
func (t Tokens) ForWrite() (string, error) {
	if t.Write != "" {
		return t.Write, nil
	}
	return t.ForRead()
}
