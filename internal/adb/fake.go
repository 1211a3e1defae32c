package adb

import (
	"context"
	"strings"
	"sync"
)

// FakeResponse is a canned reply for one adb invocation.
type FakeResponse struct {
	Output []byte
	Err    error
}

// FakeRunner is an in-memory CommandRunner for tests. Responses are keyed
// by the space-joined argument list; Hook, when set, takes precedence and
// can simulate side effects such as pull writing a local file.
type FakeRunner struct {
	mu        sync.Mutex
	Responses map[string]FakeResponse
	Hook      func(args []string) ([]byte, error, bool)
	calls     [][]string
}

func (f *FakeRunner) Run(_ context.Context, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()

	if f.Hook != nil {
		if out, err, handled := f.Hook(args); handled {
			return out, err
		}
	}
	if resp, ok := f.Responses[strings.Join(args, " ")]; ok {
		return resp.Output, resp.Err
	}
	return nil, nil
}

// Calls returns every recorded invocation, in order.
func (f *FakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

// CalledWith reports whether any recorded invocation starts with prefix.
func (f *FakeRunner) CalledWith(prefix ...string) bool {
	for _, call := range f.Calls() {
		if len(call) < len(prefix) {
			continue
		}
		match := true
		for i, p := range prefix {
			if call[i] != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
