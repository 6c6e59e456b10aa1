package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medisched/user-service/internal/core/domain"
	"github.com/medisched/user-service/internal/core/ports"
)

type countingRepo struct {
	mu        sync.Mutex
	providers map[domain.MedicalService][]ports.ProviderSummary
	calls     int
	err       error
}

func (r *countingRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *countingRepo) FindByID(context.Context, int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *countingRepo) Save(_ context.Context, u *domain.User) (*domain.User, error) {
	cp := *u
	if cp.ID == 0 {
		cp.ID = 1
	}
	return &cp, nil
}

func (r *countingRepo) FindByService(_ context.Context, s domain.MedicalService) ([]ports.ProviderSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := append([]ports.ProviderSummary{}, r.providers[s]...)
	return out, nil
}

func (r *countingRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newCache(t *testing.T, repo ports.UserRepository) (*miniredis.Miniredis, ports.UserRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewProviderCache(repo, client, 30*time.Second, zerolog.Nop())
}

func TestProviderCache_HitAfterMiss(t *testing.T) {
	repo := &countingRepo{providers: map[domain.MedicalService][]ports.ProviderSummary{
		domain.GeneralCheckup: {{ID: 1, FirstName: "Gregory", LastName: "House"}},
	}}
	mr, cache := newCache(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cache.FindByService(ctx, domain.GeneralCheckup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].ID != 1 {
			t.Fatalf("unexpected providers %+v", got)
		}
	}
	if n := repo.callCount(); n != 1 {
		t.Errorf("expected 1 directory call, got %d", n)
	}

	raw, err := mr.Get("providers:GENERAL_CHECKUP")
	if err != nil {
		t.Fatalf("expected cached key: %v", err)
	}
	var cached []ports.ProviderSummary
	if err := json.Unmarshal([]byte(raw), &cached); err != nil || len(cached) != 1 {
		t.Errorf("unexpected cached payload %q", raw)
	}
	if ttl := mr.TTL("providers:GENERAL_CHECKUP"); ttl != 30*time.Second {
		t.Errorf("expected 30s ttl, got %v", ttl)
	}
}

func TestProviderCache_ExpiresAfterTTL(t *testing.T) {
	repo := &countingRepo{providers: map[domain.MedicalService][]ports.ProviderSummary{
		domain.DentalCleaning: {{ID: 2, FirstName: "Lisa", LastName: "Cuddy"}},
	}}
	mr, cache := newCache(t, repo)
	ctx := context.Background()

	if _, err := cache.FindByService(ctx, domain.DentalCleaning); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(31 * time.Second)
	if _, err := cache.FindByService(ctx, domain.DentalCleaning); err != nil {
		t.Fatal(err)
	}
	if n := repo.callCount(); n != 2 {
		t.Errorf("expected 2 directory calls, got %d", n)
	}
}

func TestProviderCache_EmptyResultNotCached(t *testing.T) {
	repo := &countingRepo{providers: map[domain.MedicalService][]ports.ProviderSummary{}}
	mr, cache := newCache(t, repo)

	got, err := cache.FindByService(context.Background(), domain.CardiologyConsultation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no providers, got %+v", got)
	}
	if mr.Exists("providers:CARDIOLOGY_CONSULTATION") {
		t.Error("empty result should not be cached")
	}
}

func TestProviderCache_DirectoryErrorPropagates(t *testing.T) {
	boom := errors.New("directory down")
	repo := &countingRepo{err: boom}
	_, cache := newCache(t, repo)

	if _, err := cache.FindByService(context.Background(), domain.GeneralCheckup); !errors.Is(err, boom) {
		t.Errorf("expected directory error, got %v", err)
	}
}

func TestProviderCache_SaveInvalidatesServiceKeys(t *testing.T) {
	repo := &countingRepo{}
	mr, cache := newCache(t, repo)

	mr.Set("providers:GENERAL_CHECKUP", "[]")
	mr.Set("providers:DENTAL_CLEANING", "[]")
	mr.Set("providers:DERMATOLOGY_CONSULTATION", "[]")

	_, err := cache.Save(context.Background(), &domain.User{
		Email:    "doc@example.com",
		Role:     domain.RoleDoctor,
		Services: []domain.MedicalService{domain.GeneralCheckup, domain.DentalCleaning},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mr.Exists("providers:GENERAL_CHECKUP") || mr.Exists("providers:DENTAL_CLEANING") {
		t.Error("expected keys of the saved user's services to be dropped")
	}
	if !mr.Exists("providers:DERMATOLOGY_CONSULTATION") {
		t.Error("unrelated key should survive")
	}
}

func TestProviderCache_ReplaceInvalidatesDroppedServices(t *testing.T) {
	repo := &countingRepo{}
	mr, cache := newCache(t, repo)

	mr.Set("providers:GENERAL_CHECKUP", "[]")
	mr.Set("providers:CARDIOLOGY_CONSULTATION", "[]")

	_, err := cache.Save(context.Background(), &domain.User{
		ID:       9,
		Email:    "doc@example.com",
		Role:     domain.RoleDoctor,
		Services: []domain.MedicalService{domain.DentalCleaning},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"providers:GENERAL_CHECKUP", "providers:CARDIOLOGY_CONSULTATION"} {
		if mr.Exists(key) {
			t.Errorf("%s should be dropped when a user is replaced", key)
		}
	}
}

func TestProviderCache_RedisDownFallsThrough(t *testing.T) {
	repo := &countingRepo{providers: map[domain.MedicalService][]ports.ProviderSummary{
		domain.GeneralCheckup: {{ID: 1, FirstName: "Gregory", LastName: "House"}},
	}}
	mr, cache := newCache(t, repo)
	mr.Close()

	got, err := cache.FindByService(context.Background(), domain.GeneralCheckup)
	if err != nil {
		t.Fatalf("expected fallback to directory, got %v", err)
	}
	if len(got) != 1 {
		t.Errorf("unexpected providers %+v", got)
	}

	if _, err := cache.Save(context.Background(), &domain.User{Services: []domain.MedicalService{domain.GeneralCheckup}}); err != nil {
		t.Errorf("save should ignore cache failures, got %v", err)
	}
}

func TestProviderCache_CorruptEntryIsReplaced(t *testing.T) {
	repo := &countingRepo{providers: map[domain.MedicalService][]ports.ProviderSummary{
		domain.GeneralCheckup: {{ID: 1, FirstName: "Gregory", LastName: "House"}},
	}}
	mr, cache := newCache(t, repo)
	mr.Set("providers:GENERAL_CHECKUP", "not-json")

	got, err := cache.FindByService(context.Background(), domain.GeneralCheckup)
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result %+v, %v", got, err)
	}
	if repo.callCount() != 1 {
		t.Errorf("expected directory call on corrupt entry")
	}
}

func TestNewProviderCache_DisabledReturnsRepo(t *testing.T) {
	repo := &countingRepo{}
	if got := NewProviderCache(repo, nil, time.Minute, zerolog.Nop()); got != ports.UserRepository(repo) {
		t.Error("nil client should disable the cache")
	}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	if got := NewProviderCache(repo, client, 0, zerolog.Nop()); got != ports.UserRepository(repo) {
		t.Error("zero ttl should disable the cache")
	}
}
