package redisstore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"recordwizard/internal/session"
	"recordwizard/internal/wizard"
)

func startRedis(t *testing.T, ctx context.Context) (testcontainers.Container, string) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	rc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("failed to start redis: %v", err)
	}
	port, err := rc.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	host, err := rc.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	return rc, host + ":" + port.Port()
}

func factory() *wizard.Machine {
	return wizard.NewMachine(wizard.Options{AgencyThreshold: 0.5, LinkThreshold: 0.5})
}

func TestRedisStoreRoundTrip(t *testing.T) {
	if os.Getenv("RECORDWIZARD_INTEGRATION") == "" {
		t.Skip("set RECORDWIZARD_INTEGRATION=1 to run container tests")
	}

	ctx := context.Background()
	rc, addr := startRedis(t, ctx)
	defer func() { _ = rc.Terminate(ctx) }()

	client, err := Conn(ctx, addr, "", 0)
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	store := NewStore(client, factory, time.Minute)

	id, m, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Advance and persist: the history must survive the round trip.
	if err := m.NextPage(); err != nil {
		t.Fatalf("NextPage: %v", err)
	}
	if err := store.Save(ctx, id, m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := restored.View().Activity.Type; got != wizard.ActivityQuery {
		t.Fatalf("activity = %s, want query", got)
	}
	restored.PrevPage()
	if got := restored.View().Activity.Type; got != wizard.ActivityIntro {
		t.Fatalf("history not persisted: activity = %s, want intro", got)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("got %v after delete, want ErrNotFound", err)
	}
}
