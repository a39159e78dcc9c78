package bridge

import (
	osabridge "github.com/osakit/osabridge"
)

// fakeExecutor is a scriptable Executor for proxy lifecycle tests.
// Hooks default to zero-value results; release calls are recorded.
type fakeExecutor struct {
	getApplication func(name string) (osabridge.ObjectRef, error)
	callMethod     func(target osabridge.Handle, name string, args []any, opts map[string]any) (osabridge.Result, error)
	getProperty    func(target osabridge.Handle, name string) (osabridge.Result, error)
	setProperties  func(target osabridge.Handle, props map[string]any) error
	callSelf       func(target osabridge.Handle, args []any, opts map[string]any) (osabridge.Result, error)
	releaseErr     error

	released []osabridge.Handle
	closed   bool
}

func (f *fakeExecutor) GetApplication(name string) (osabridge.ObjectRef, error) {
	if f.getApplication != nil {
		return f.getApplication(name)
	}
	return osabridge.ObjectRef{Handle: 1, Class: "application"}, nil
}

func (f *fakeExecutor) CallMethod(target osabridge.Handle, name string, args []any, opts map[string]any) (osabridge.Result, error) {
	if f.callMethod != nil {
		return f.callMethod(target, name, args, opts)
	}
	return osabridge.Result{}, nil
}

func (f *fakeExecutor) GetProperty(target osabridge.Handle, name string) (osabridge.Result, error) {
	if f.getProperty != nil {
		return f.getProperty(target, name)
	}
	return osabridge.Result{}, nil
}

func (f *fakeExecutor) SetProperties(target osabridge.Handle, props map[string]any) error {
	if f.setProperties != nil {
		return f.setProperties(target, props)
	}
	return nil
}

func (f *fakeExecutor) CallSelf(target osabridge.Handle, args []any, opts map[string]any) (osabridge.Result, error) {
	if f.callSelf != nil {
		return f.callSelf(target, args, opts)
	}
	return osabridge.Result{}, nil
}

func (f *fakeExecutor) ReleaseObject(h osabridge.Handle) error {
	f.released = append(f.released, h)
	return f.releaseErr
}

func (f *fakeExecutor) Close() error {
	f.closed = true
	return nil
}
