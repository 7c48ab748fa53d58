// Package mockstorage provides testify-based mocks of the capabilities the
// client helpers depend on: the key/value store, page navigation, the
// clipboard and the alert dialog.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// StoreMock implements storage.KeyValueStore.
type StoreMock struct {
	mock.Mock
}

// GetItem mocks reading a key.
func (m *StoreMock) GetItem(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// SetItem mocks writing a key.
func (m *StoreMock) SetItem(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// RemoveItem mocks deleting a key.
func (m *StoreMock) RemoveItem(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// NavigatorMock implements session.Navigator.
type NavigatorMock struct {
	mock.Mock
}

// CurrentPath mocks reading the page path.
func (m *NavigatorMock) CurrentPath() string {
	args := m.Called()
	return args.String(0)
}

// Navigate mocks a page change.
func (m *NavigatorMock) Navigate(path string) {
	m.Called(path)
}

// ClipboardMock implements ui.Clipboard.
type ClipboardMock struct {
	mock.Mock
}

// WriteText mocks a clipboard write.
func (m *ClipboardMock) WriteText(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// AlerterMock implements ui.Alerter.
type AlerterMock struct {
	mock.Mock
}

// Alert mocks a blocking alert dialog.
func (m *AlerterMock) Alert(message string) {
	m.Called(message)
}
