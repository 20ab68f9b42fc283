package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	localstore "docintake/internal/shared/storage/object/local"
)

type failingRepo struct {
	MemoryRepo
}

func (*failingRepo) Create(ctx context.Context, doc Document) (int64, error) {
	return 0, errors.New("disk full")
}

type echoLLM struct{ prompt string }

func (e *echoLLM) Generate(ctx context.Context, prompt string) (string, error) {
	e.prompt = prompt
	return "summary", nil
}

func TestUploadInsertFailureRemovesBlob(t *testing.T) {
	dir := t.TempDir()
	svc := &Service{
		Store: localstore.New(dir),
		Repo:  &failingRepo{},
		LLM:   &echoLLM{},
	}

	_, err := svc.Upload(context.Background(), "report.txt", strings.NewReader("hello"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert document")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadSendsOnlyLeadingBytes(t *testing.T) {
	client := &echoLLM{}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	svc := &Service{
		Store: localstore.New(t.TempDir()),
		Repo:  NewMemoryRepo(),
		LLM:   client,
		Now:   func() time.Time { return fixed },
	}

	content := bytes.Repeat([]byte("b"), 5000)
	doc, err := svc.Upload(context.Background(), "long.txt", bytes.NewReader(content))

	require.NoError(t, err)
	assert.Equal(t, int64(5000), doc.SizeBytes)
	assert.Equal(t, fixed.UTC(), doc.UploadDate)
	assert.Equal(t, "Summarize this document in 200 words: "+strings.Repeat("b", 1000), client.prompt)

	_, rc, err := svc.OpenFile(context.Background(), doc.ID)
	require.NoError(t, err)
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestUploadRejectsOversizedStream(t *testing.T) {
	dir := t.TempDir()
	svc := &Service{Store: localstore.New(dir), Repo: NewMemoryRepo(), LLM: &echoLLM{}}

	_, err := svc.Upload(context.Background(), "big.bin", io.LimitReader(zeroReader{}, MaxUploadBytes+10))

	require.ErrorIs(t, err, ErrTooLarge)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadRequiresFileName(t *testing.T) {
	svc := &Service{Store: localstore.New(t.TempDir()), Repo: NewMemoryRepo()}

	_, err := svc.Upload(context.Background(), "", strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOpenFileMissingBlob(t *testing.T) {
	repo := NewMemoryRepo()
	id, err := repo.Create(context.Background(), Document{FileName: "gone.txt", StorageKey: "missing.txt"})
	require.NoError(t, err)
	svc := &Service{Store: localstore.New(t.TempDir()), Repo: repo}

	_, _, err = svc.OpenFile(context.Background(), id)

	assert.ErrorIs(t, err, ErrFileMissing)
	assert.NotContains(t, err.Error(), "missing.txt")
}

func TestPrefixBuffer(t *testing.T) {
	p := &prefixBuffer{limit: 4}
	n, err := p.Write([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = p.Write([]byte("cdef"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcd", string(p.Bytes()))
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
