package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/contentxfer/cmd/contentxfer/opts"
	"github.com/walteh/contentxfer/pkg/chooser"
	"github.com/walteh/contentxfer/pkg/content"
	"github.com/walteh/contentxfer/pkg/db"
	"github.com/walteh/contentxfer/pkg/folder"
	"github.com/walteh/contentxfer/pkg/lobstore"
	"github.com/walteh/contentxfer/pkg/log"
	"github.com/walteh/contentxfer/pkg/operation"
	"github.com/walteh/contentxfer/pkg/settings"
	"github.com/walteh/contentxfer/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockTransferer is a mock implementation of operation.Transferer
type MockTransferer struct {
	mock.Mock
}

func (m *MockTransferer) Import(ctx context.Context, mon status.Monitor, v content.Value, path string) (*operation.Result, error) {
	result := m.Called(ctx, mon, v, path)
	res, _ := result.Get(0).(*operation.Result)
	return res, result.Error(1)
}

func (m *MockTransferer) Export(ctx context.Context, mon status.Monitor, v content.Value, path string) (*operation.Result, error) {
	result := m.Called(ctx, mon, v, path)
	res, _ := result.Get(0).(*operation.Result)
	return res, result.Error(1)
}

func newTestOpts(t *testing.T, tr operation.Transferer) (*opts.RootOpts, string) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	conn, err := db.Open(ctx, filepath.Join(dir, "values.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	store := settings.NewMemoryStore()
	require.NoError(t, store.Set(ctx, folder.Key, dir))
	folders := folder.Load(ctx, store)

	ch, err := chooser.New(folders, nil)
	require.NoError(t, err)

	return &opts.RootOpts{
		DB:         conn,
		Values:     lobstore.New(conn, 0),
		Folders:    folders,
		Chooser:    ch,
		Transferer: tr,
		Runner:     operation.NewRunner(nil, func(string) status.Monitor { return status.Nop() }),
		Console:    log.New(&bytes.Buffer{}, zerolog.InfoLevel),
	}, dir
}

func runImport(t *testing.T, o *opts.RootOpts, args ...string) error {
	t.Helper()
	cmd := NewImportCmd(func() *opts.RootOpts { return o })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestImportDiscardsNewValueOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "failed", err: &operation.TransferError{Kind: operation.KindTransferFailed, Direction: operation.Import, Value: "fresh", Err: errors.New("read failed")}, wantErr: true},
		{name: "cancelled", err: &operation.TransferError{Kind: operation.KindCancelled, Direction: operation.Import, Value: "fresh", Err: context.Canceled}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &MockTransferer{}
			o, dir := newTestOpts(t, tr)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "in.txt"), []byte("data"), 0644))

			tr.On("Import", mock.Anything, mock.Anything, mock.Anything, filepath.Join(dir, "in.txt")).Return(nil, tt.err)

			err := runImport(t, o, "fresh", "in.txt")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			_, err = o.Values.Get(context.Background(), "fresh")
			assert.True(t, errors.Is(err, lobstore.ErrNotFound), "value should be removed, got %v", err)
			tr.AssertExpectations(t)
		})
	}
}

func TestImportKeepsExistingValueOnFailure(t *testing.T) {
	ctx := context.Background()
	tr := &MockTransferer{}
	o, dir := newTestOpts(t, tr)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.txt"), []byte("data"), 0644))

	_, err := o.Values.Create(ctx, "kept", "text/plain", []byte("original"))
	require.NoError(t, err)

	tr.On("Import", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &operation.TransferError{Kind: operation.KindTransferFailed, Direction: operation.Import, Value: "kept", Err: errors.New("read failed")})

	require.Error(t, runImport(t, o, "kept", "in.txt"))

	v, err := o.Values.Get(ctx, "kept")
	require.NoError(t, err)
	s, err := v.Contents(ctx, status.Nop())
	require.NoError(t, err)
	defer s.Release()
	n, err := s.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len("original")), n)
}
