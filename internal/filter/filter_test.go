package filter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetFilter(t *testing.T) {
	priors := []State{Default(), {SelectedGroupFilter: "group-1", SelectedUserID: "group-1"}, {SelectedGroupFilter: "x"}}
	for _, prior := range priors {
		if got := SetFilter(prior, All); got.SelectedUserID != "" || got.SelectedGroupFilter != All {
			t.Fatalf("SetFilter(%+v, all) = %+v", prior, got)
		}
		if got := SetFilter(prior, "group-7"); got.SelectedUserID != "group-7" || got.SelectedGroupFilter != "group-7" {
			t.Fatalf("SetFilter(%+v, group-7) = %+v", prior, got)
		}
		if got := Reset(prior); got != Default() {
			t.Fatalf("Reset(%+v) = %+v", prior, got)
		}
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d.SelectedGroupFilter != "all" || d.SelectedUserID != "" {
		t.Fatalf("unexpected default %+v", d)
	}
}

func TestStorePersistsAndRehydrates(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()

	s := NewStore(mem)
	if _, err := s.SetFilter(ctx, "group-7"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	raw, ok, _ := mem.Get(ctx, StorageKey)
	if !ok || string(raw) != `{"selectedGroupFilter":"group-7","selectedUserId":"group-7"}` {
		t.Fatalf("unexpected stored value %q", raw)
	}

	s2 := NewStore(mem)
	st, err := s2.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.SelectedUserID != "group-7" {
		t.Fatalf("rehydrated %+v", st)
	}

	st, _ = s2.Reset(ctx)
	if st != Default() {
		t.Fatalf("reset %+v", st)
	}
	raw, _, _ = mem.Get(ctx, StorageKey)
	if string(raw) != `{"selectedGroupFilter":"all"}` {
		t.Fatalf("unexpected stored value after reset %q", raw)
	}
}

func TestStoreLoadMissingKeepsDefault(t *testing.T) {
	st, err := NewStore(NewMemoryStorage()).Load(context.Background())
	if err != nil || st != Default() {
		t.Fatalf("got %+v, %v", st, err)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	mem := NewMemoryStorage()
	_ = mem.Set(context.Background(), StorageKey, []byte("{"))
	st, err := NewStore(mem).Load(context.Background())
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if st != Default() {
		t.Fatalf("expected default on error, got %+v", st)
	}
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (failingStorage) Set(context.Context, string, []byte) error { return errors.New("quota") }

func TestStoreSaveError(t *testing.T) {
	st, err := NewStore(failingStorage{}).SetFilter(context.Background(), "g")
	if err == nil {
		t.Fatalf("expected save error")
	}
	if st.SelectedUserID != "g" {
		t.Fatalf("state should still transition, got %+v", st)
	}
}

func TestCookieStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	rec := httptest.NewRecorder()
	s := NewStore(NewCookieStorage(rec, httptest.NewRequest(http.MethodPost, "/api/filter", nil)))
	if _, err := s.SetFilter(ctx, "m-1"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != StorageKey {
		t.Fatalf("unexpected cookies %v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/filter", nil)
	req.AddCookie(cookies[0])
	st, err := NewStore(NewCookieStorage(httptest.NewRecorder(), req)).Load(ctx)
	if err != nil || st.SelectedUserID != "m-1" {
		t.Fatalf("got %+v, %v", st, err)
	}
}

func TestContextState(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Fatalf("expected default from empty context")
	}
	st := SetFilter(Default(), "m")
	if FromContext(WithState(context.Background(), st)) != st {
		t.Fatalf("state not carried by context")
	}
}
