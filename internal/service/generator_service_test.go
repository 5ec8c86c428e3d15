package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/studyhall/quizdeck-backend/internal/config"
	"github.com/studyhall/quizdeck-backend/internal/extract"
	"github.com/studyhall/quizdeck-backend/internal/llm"
	"github.com/studyhall/quizdeck-backend/internal/store"
)

func testGenConfig() *config.Config {
	return &config.Config{
		MinTextLength:   20,
		GenTimeout:      5 * time.Second,
		TargetQuestions: 100,
		MaxPromptChars:  16000,
	}
}

func newGenerator(provider llm.Provider, banks store.BankStore, cfg *config.Config) *GeneratorService {
	extractor := extract.NewService(cfg.MinTextLength, zerolog.Nop())
	return NewGeneratorService(extractor, provider, banks, cfg, zerolog.Nop())
}

// testDOCX builds a minimal in-memory Word document around the given text.
func testDOCX(t *testing.T, text string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	fmt.Fprintf(w, `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>%s</w:t></w:r></w:p></w:body></w:document>`, text)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func bankJSON(questions ...map[string]any) json.RawMessage {
	raw, _ := json.Marshal(map[string]any{"questions": questions})
	return raw
}

func validQuestion(text string) map[string]any {
	return map[string]any{
		"question":     text,
		"options":      []string{"a", "b", "c", "d"},
		"correctIndex": 1,
		"explanation":  "stated in the document",
	}
}

const docText = "The mitochondrion is the site of aerobic respiration in eukaryotic cells."

func TestGenerateFromDocument_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: bankJSON(validQuestion("What is the site of aerobic respiration?"), validQuestion("Which organelle produces ATP?")),
	})
	banks := store.NewMemoryBankStore(time.Minute)
	cfg := testGenConfig()

	g := newGenerator(mock, banks, cfg)
	data := testDOCX(t, docText)

	bank, err := g.GenerateFromDocument(context.Background(), "alice", "bio.docx", extract.MimeDOCX, int64(len(data)), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bank.SessionID == "" {
		t.Error("session id not minted")
	}
	if bank.OwnerID != "alice" || bank.FileName != "bio.docx" {
		t.Errorf("bank metadata wrong: %+v", bank)
	}
	if len(bank.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(bank.Questions))
	}
	if bank.Questions[0].ID != "q1" || bank.Questions[1].ID != "q2" {
		t.Errorf("ids = %q, %q; want q1, q2", bank.Questions[0].ID, bank.Questions[1].ID)
	}

	stored, err := banks.Get(context.Background(), "alice", bank.SessionID)
	if err != nil {
		t.Fatalf("bank not stored: %v", err)
	}
	if stored.State != "GENERATED" {
		t.Errorf("state = %q, want GENERATED", stored.State)
	}
}

func TestGenerateFromDocument_DropsInvalidQuestions(t *testing.T) {
	threeOptions := map[string]any{
		"question":     "Broken question",
		"options":      []string{"a", "b", "c"},
		"correctIndex": 0,
		"explanation":  "x",
	}
	outOfRange := map[string]any{
		"question":     "Another broken question",
		"options":      []string{"a", "b", "c", "d"},
		"correctIndex": 4,
		"explanation":  "x",
	}

	mock := llm.NewMockProvider(llm.MockResponse{
		Content: bankJSON(threeOptions, validQuestion("A good one"), outOfRange),
	})
	g := newGenerator(mock, store.NewMemoryBankStore(time.Minute), testGenConfig())
	data := testDOCX(t, docText)

	bank, err := g.GenerateFromDocument(context.Background(), "alice", "bio.docx", extract.MimeDOCX, int64(len(data)), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bank.Questions) != 1 {
		t.Fatalf("questions = %d, want 1", len(bank.Questions))
	}
	if bank.Questions[0].Text != "A good one" {
		t.Errorf("kept wrong question: %q", bank.Questions[0].Text)
	}
}

func TestGenerateFromDocument_AllInvalidIsEmpty(t *testing.T) {
	broken := map[string]any{
		"question":     "",
		"options":      []string{"a", "b", "c", "d"},
		"correctIndex": 0,
		"explanation":  "x",
	}
	mock := llm.NewMockProvider(llm.MockResponse{Content: bankJSON(broken)})
	g := newGenerator(mock, store.NewMemoryBankStore(time.Minute), testGenConfig())
	data := testDOCX(t, docText)

	_, err := g.GenerateFromDocument(context.Background(), "alice", "bio.docx", extract.MimeDOCX, int64(len(data)), data)
	if !errors.Is(err, ErrGenerationEmpty) {
		t.Errorf("got %v, want ErrGenerationEmpty", err)
	}
}

func TestGenerateFromDocument_MalformedRetriedOnceWithShorterInput(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("not the schema")}},
		llm.MockResponse{Content: bankJSON(validQuestion("Recovered on retry"))},
	)
	cfg := testGenConfig()
	cfg.MaxPromptChars = 40
	g := newGenerator(mock, store.NewMemoryBankStore(time.Minute), cfg)
	data := testDOCX(t, docText)

	bank, err := g.GenerateFromDocument(context.Background(), "alice", "bio.docx", extract.MimeDOCX, int64(len(data)), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bank.Questions) != 1 {
		t.Fatalf("questions = %d, want 1", len(bank.Questions))
	}
	if mock.CallCount() != 2 {
		t.Fatalf("calls = %d, want 2", mock.CallCount())
	}
	if len(mock.Calls[1].User) >= len(mock.Calls[0].User) {
		t.Errorf("retry prompt not shortened: %d vs %d", len(mock.Calls[1].User), len(mock.Calls[0].User))
	}
}

func TestGenerateFromDocument_MalformedTwiceFails(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("garbage")}},
		llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("garbage again")}},
	)
	g := newGenerator(mock, store.NewMemoryBankStore(time.Minute), testGenConfig())
	data := testDOCX(t, docText)

	_, err := g.GenerateFromDocument(context.Background(), "alice", "bio.docx", extract.MimeDOCX, int64(len(data)), data)
	if !errors.Is(err, ErrGenerationMalformed) {
		t.Errorf("got %v, want ErrGenerationMalformed", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", mock.CallCount())
	}
}

func TestGenerateFromDocument_ExtractionErrorShortCircuits(t *testing.T) {
	mock := llm.NewMockProvider()
	g := newGenerator(mock, store.NewMemoryBankStore(time.Minute), testGenConfig())

	_, err := g.GenerateFromDocument(context.Background(), "alice", "x.txt", "text/plain", 4, []byte("text"))
	if !errors.Is(err, extract.ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called despite extraction failure")
	}
}

func TestGenerateFromDocument_PromptCarriesDocumentText(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: bankJSON(validQuestion("q"))})
	g := newGenerator(mock, store.NewMemoryBankStore(time.Minute), testGenConfig())
	data := testDOCX(t, docText)

	if _, err := g.GenerateFromDocument(context.Background(), "alice", "bio.docx", extract.MimeDOCX, int64(len(data)), data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(mock.Calls[0].User, "mitochondrion") {
		t.Errorf("document text missing from prompt")
	}
	if mock.Calls[0].Schema == nil {
		t.Errorf("schema not attached to request")
	}
}
