package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"resumewise/resume-analyzer/internal/models"
	"resumewise/resume-analyzer/internal/repositories"
)

var errBoom = errors.New("boom")

// callLog records the order collaborators are invoked in.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeStorage struct {
	log    *callLog
	failOn models.FileType
	mu     sync.Mutex
	blobs  map[string][]byte
}

func newFakeStorage(log *callLog) *fakeStorage {
	return &fakeStorage{log: log, blobs: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, owner string, file FileInput) (*UploadedFile, error) {
	f.log.add("upload:" + string(file.FileType))
	if f.failOn != "" && f.failOn == file.FileType {
		return nil, errBoom
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p := path.Join(owner, fmt.Sprintf("%s_%d_%s", file.FileType, len(f.blobs), file.Name))
	f.blobs[p] = file.Data
	return &UploadedFile{Path: p}, nil
}

func (f *fakeStorage) Read(_ context.Context, _ string, filePath string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[filePath]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return data, nil
}

func (f *fakeStorage) Exists(_ context.Context, _ string, filePath string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[filePath]
	return ok, nil
}

func (f *fakeStorage) put(p string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[p] = data
}

type fakeConverter struct {
	log    *callLog
	failOn string
}

func (f *fakeConverter) Convert(_ context.Context, name string, pdfData []byte) (*ConvertedImage, error) {
	f.log.add("convert:" + name)
	if f.failOn == name {
		return nil, errBoom
	}
	return &ConvertedImage{
		Name:     imageName(name),
		MimeType: "image/png",
		Data:     append([]byte("\x89PNG\r\n\x1a\n"), pdfData[:min(len(pdfData), 16)]...),
	}, nil
}

// fakeKV wraps the in-memory repository and can fail the n-th Set.
type fakeKV struct {
	repositories.KVRepository
	log       *callLog
	failSetAt int
	sets      int
	values    []string
}

func newFakeKV(log *callLog) *fakeKV {
	return &fakeKV{KVRepository: repositories.NewMemoryKVRepository(), log: log}
}

func (f *fakeKV) Set(ctx context.Context, owner, key, value string) error {
	f.log.add("kv.set")
	f.sets++
	if f.failSetAt == f.sets {
		return errBoom
	}
	f.values = append(f.values, value)
	return f.KVRepository.Set(ctx, owner, key, value)
}

type fakeAI struct {
	log      *callLog
	response *models.AIResponse
	err      error
	prompts  []string
}

func (f *fakeAI) Feedback(_ context.Context, _, filePath, instructions string) (*models.AIResponse, error) {
	f.log.add("ai.feedback:" + path.Base(filePath))
	f.prompts = append(f.prompts, instructions)
	return f.response, f.err
}

func (f *fakeAI) FeedbackJobDescription(_ context.Context, _, resumePath, jobPath, instructions string) (*models.AIResponse, error) {
	f.log.add("ai.feedback_job:" + path.Base(resumePath) + "+" + path.Base(jobPath))
	f.prompts = append(f.prompts, instructions)
	return f.response, f.err
}

type fakeGuidance struct {
	text string
	err  error
}

func (f *fakeGuidance) Retrieve(context.Context, string) (string, error) {
	return f.text, f.err
}

type fakeEvents struct {
	mu     sync.Mutex
	events []ResumeAnalyzedEvent
}

func (f *fakeEvents) PublishResumeAnalyzed(_ context.Context, event ResumeAnalyzedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEvents) Close() error { return nil }

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*models.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return fmt.Errorf("duplicate user %s", user.Username)
	}
	r.users[user.Username] = user
	return nil
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func textResponse(text string) *models.AIResponse {
	return &models.AIResponse{Message: models.AIMessage{Role: "assistant", Content: models.NewTextContent(text)}}
}

// fakePDF returns size bytes that sniff as application/pdf.
func fakePDF(size int) []byte {
	header := []byte("%PDF-1.4\n%fake\n")
	if size < len(header) {
		size = len(header)
	}
	return append(header, bytes.Repeat([]byte("x"), size-len(header))...)
}
