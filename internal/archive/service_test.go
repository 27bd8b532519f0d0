package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockDriver is an in-memory StorageDriver for tests.
type mockDriver struct {
	objects map[string][]byte
	urlErr  error
	deleted []string
}

func newMockDriver() *mockDriver {
	return &mockDriver{objects: make(map[string][]byte)}
}

func (m *mockDriver) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *mockDriver) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "application/json", nil
}

func (m *mockDriver) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.objects, key)
	return nil
}

func (m *mockDriver) GenerateURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if m.urlErr != nil {
		return "", m.urlErr
	}
	return "https://archive.example.com/" + key, nil
}

func TestStoreRaw(t *testing.T) {
	driver := newMockDriver()
	svc := NewService(driver)
	quoteID := uuid.New()
	body := []byte(`{"globalCompliance":[]}`)

	record, err := svc.StoreRaw(context.Background(), quoteID, body)
	assert.NoError(t, err)
	assert.Equal(t, quoteID, record.QuoteID)
	assert.Equal(t, fmt.Sprintf("%s.json", quoteID), record.Key)
	assert.Equal(t, "https://archive.example.com/"+record.Key, record.URL)
	assert.Equal(t, int64(len(body)), record.Size)
	assert.Equal(t, body, driver.objects[record.Key])
}

func TestStoreRaw_URLFailureCleansUp(t *testing.T) {
	driver := newMockDriver()
	driver.urlErr = errors.New("presign failed")
	svc := NewService(driver)
	quoteID := uuid.New()

	_, err := svc.StoreRaw(context.Background(), quoteID, []byte(`{}`))
	assert.Error(t, err)

	key := fmt.Sprintf("%s.json", quoteID)
	assert.Contains(t, driver.deleted, key)
	assert.NotContains(t, driver.objects, key)
}

func TestFetch(t *testing.T) {
	driver := newMockDriver()
	svc := NewService(driver)
	quoteID := uuid.New()
	body := []byte(`{"ok":true}`)

	_, err := svc.StoreRaw(context.Background(), quoteID, body)
	assert.NoError(t, err)

	reader, contentType, err := svc.Fetch(context.Background(), quoteID)
	assert.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "application/json", contentType)
	got, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestFetch_Missing(t *testing.T) {
	svc := NewService(newMockDriver())

	_, _, err := svc.Fetch(context.Background(), uuid.New())
	assert.Error(t, err)
}
