package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vladlyt/mj/internal/app"
	"github.com/vladlyt/mj/internal/config"
	"github.com/vladlyt/mj/internal/domain"
	"github.com/vladlyt/mj/internal/logger"
)

const roomUUID = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"

type fakeOpener struct {
	opened []string
}

func (f *fakeOpener) Open(url string) error {
	f.opened = append(f.opened, url)
	return nil
}

type testEnv struct {
	deps   *Dependencies
	opener *fakeOpener
	host   string
}

func newTestEnv(t *testing.T, host string) *testEnv {
	t.Helper()
	if host == "" {
		host = "https://rooms.example.com"
	}
	cfg := &config.Config{
		Host:          host,
		ConfigPath:    filepath.Join(t.TempDir(), "meetenjoy", "config.json"),
		ExportTimeout: 2 * time.Second,
	}
	application, err := app.New(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	opener := &fakeOpener{}
	application.Browser = opener

	return &testEnv{
		deps:   &Dependencies{App: application, Config: cfg},
		opener: opener,
		host:   host,
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(e.deps)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("mj %v: %v", args, err)
	}
	return out
}

func TestCreateWithAliasAndConnect(t *testing.T) {
	env := newTestEnv(t, "")

	out := env.mustRun(t, "create", "-c", "-n", "Ann", "-a", "standup")

	roomID, ok := env.deps.App.Aliases.Resolve("standup")
	if !ok {
		t.Fatal("alias standup was not saved")
	}
	if !domain.IsValidUUID(roomID) {
		t.Errorf("room id %q is not a UUID", roomID)
	}

	want := env.host + "/" + roomID + "?name=Ann"
	if !strings.Contains(out, want) {
		t.Errorf("output %q does not contain link %q", out, want)
	}
	if len(env.opener.opened) != 1 || env.opener.opened[0] != want {
		t.Errorf("opened = %v, want [%v]", env.opener.opened, want)
	}
}

func TestCreateWithoutConnectDoesNotOpen(t *testing.T) {
	env := newTestEnv(t, "")
	env.mustRun(t, "create")

	if len(env.opener.opened) != 0 {
		t.Errorf("browser opened %v", env.opener.opened)
	}
	if len(env.deps.App.Aliases.List()) != 0 {
		t.Error("create without -a saved an alias")
	}
}

func TestAliasGetConnect(t *testing.T) {
	env := newTestEnv(t, "")

	env.mustRun(t, "alias", env.host+"/"+roomUUID, "standup")
	env.mustRun(t, "set-name", "Ann Lee")

	out := env.mustRun(t, "get", "standup")
	want := env.host + "/" + roomUUID + "?name=Ann%20Lee"
	if strings.TrimSpace(out) != want {
		t.Errorf("get = %q, want %q", out, want)
	}

	env.mustRun(t, "connect", "standup", "-n", "Bob")
	if got := env.opener.opened; len(got) != 1 || got[0] != env.host+"/"+roomUUID+"?name=Bob" {
		t.Errorf("opened = %v", got)
	}
}

func TestAliasStrict(t *testing.T) {
	env := newTestEnv(t, "")
	env.mustRun(t, "alias", roomUUID, "standup")

	if _, err := env.run(t, "alias", "--strict", "other-room", "standup"); err == nil {
		t.Fatal("alias --strict overwrote an existing alias")
	}
	if id, _ := env.deps.App.Aliases.Resolve("standup"); id != roomUUID {
		t.Errorf("standup = %v, want %v", id, roomUUID)
	}

	env.mustRun(t, "alias", "other-room", "standup")
	if id, _ := env.deps.App.Aliases.Resolve("standup"); id != "other-room" {
		t.Errorf("standup = %v, want overwritten to other-room", id)
	}
}

func TestRenameRemoveAliases(t *testing.T) {
	env := newTestEnv(t, "")
	env.mustRun(t, "alias", roomUUID, "standup")
	env.mustRun(t, "alias", "retro-room", "retro")

	out := env.mustRun(t, "rename", "standup", "daily")
	if !strings.Contains(out, "Room alias standup is renamed to daily") {
		t.Errorf("rename output = %q", out)
	}
	out = env.mustRun(t, "rename", "missing", "x")
	if !strings.Contains(out, "does not exist") {
		t.Errorf("rename of missing alias output = %q", out)
	}

	env.mustRun(t, "remove", "retro")
	out = env.mustRun(t, "remove", "retro")
	if !strings.Contains(out, "does not exist") {
		t.Errorf("second remove output = %q", out)
	}

	out = env.mustRun(t, "aliases")
	if !strings.Contains(out, "daily") || !strings.Contains(out, env.host+"/"+roomUUID) {
		t.Errorf("aliases output = %q", out)
	}
	if strings.Contains(out, "retro") || strings.Contains(out, "standup") {
		t.Errorf("aliases output lists removed aliases: %q", out)
	}
}

func TestGetConfigAndSetConfig(t *testing.T) {
	env := newTestEnv(t, "")

	src := filepath.Join(t.TempDir(), "import.yaml")
	if err := os.WriteFile(src, []byte("name: Ann\naliases:\n  b: room-b\n  a: room-a\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	env.mustRun(t, "set-config", src)

	out := env.mustRun(t, "get-config")
	if strings.TrimSpace(out) != `{"name":"Ann","aliases":{"b":"room-b","a":"room-a"}}` {
		t.Errorf("get-config = %q", out)
	}

	out = env.mustRun(t, "get-config", "--pretty")
	if !strings.Contains(out, "name: Ann") || strings.Index(out, "b: room-b") > strings.Index(out, "a: room-a") {
		t.Errorf("get-config --pretty = %q", out)
	}

	if _, err := env.run(t, "set-config", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("set-config of a missing file succeeded")
	}
}

func TestExport(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/export/{room}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "room") != roomUUID {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write([]byte(`{
			"s1": {"connectedTime": 1614592800000, "disconnectedTime": 1614593100000, "nickname": "ann"},
			"s2": {"connectedTime": 1614592800000, "disconnectedTime": 1614592805000, "nickname": "blip"}
		}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	env := newTestEnv(t, srv.URL)
	env.mustRun(t, "alias", roomUUID, "standup")

	csvPath := filepath.Join(t.TempDir(), "report.csv")
	out := env.mustRun(t, "export", "standup", "-p", csvPath)
	if !strings.Contains(out, "ann") || !strings.Contains(out, "0 hours, 5 minutes, 0 seconds") {
		t.Errorf("export output = %q", out)
	}
	if strings.Contains(out, "blip") {
		t.Errorf("export output contains a session under 10s: %q", out)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("csv not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != strings.Join(domain.CSVHeader, ",") {
		t.Errorf("csv = %q", data)
	}

	out = env.mustRun(t, "export", "standup", "--json")
	var report domain.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("export --json output is not JSON: %v", err)
	}
	if !report.Available || report.RoomID != roomUUID || len(report.Rows) != 1 {
		t.Errorf("report = %+v", report)
	}

	out = env.mustRun(t, "export", "unknown-room")
	if !strings.Contains(out, "No export data available") {
		t.Errorf("export of unknown room output = %q", out)
	}
}

func TestStatsRequiresRedis(t *testing.T) {
	env := newTestEnv(t, "")
	if _, err := env.run(t, "stats"); err == nil || !strings.Contains(err.Error(), "MJ_REDIS_ADDR") {
		t.Errorf("stats error = %v, want redis not configured", err)
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t, "")
	out := env.mustRun(t, "version")
	if !strings.HasPrefix(out, "mj ") {
		t.Errorf("version = %q", out)
	}
}

func TestGetSuggestsCloseAliases(t *testing.T) {
	env := newTestEnv(t, "")
	env.mustRun(t, "alias", roomUUID, "standup")

	out := env.mustRun(t, "get", "stnadup")
	if !strings.Contains(out, "No alias named stnadup, did you mean: standup?") {
		t.Errorf("get output = %q, want suggestion", out)
	}
	if !strings.Contains(out, env.host+"/stnadup") {
		t.Errorf("get output = %q, want literal room link", out)
	}

	out = env.mustRun(t, "get", "standup")
	if strings.Contains(out, "did you mean") {
		t.Errorf("get of a known alias warned: %q", out)
	}
}

func TestGetConfigPath(t *testing.T) {
	env := newTestEnv(t, "")

	out := env.mustRun(t, "get-config", "--path")
	if strings.TrimSpace(out) != env.deps.Config.ConfigPath {
		t.Errorf("get-config --path = %q, want %q", out, env.deps.Config.ConfigPath)
	}
}

func TestServeListenFlag(t *testing.T) {
	env := newTestEnv(t, "")
	env.deps.Config.ListenPort = ":8080"

	cmd := NewServeCmd(env.deps)
	if got := cmd.Flags().Lookup("listen").DefValue; got != ":8080" {
		t.Errorf("--listen default = %q, want :8080", got)
	}
	if err := cmd.Flags().Set("listen", "127.0.0.1:9090"); err != nil {
		t.Fatal(err)
	}
	if env.deps.Config.ListenPort != "127.0.0.1:9090" {
		t.Errorf("ListenPort = %q, want the flag value", env.deps.Config.ListenPort)
	}
}

func TestAliasOfAliasStoresRoomID(t *testing.T) {
	env := newTestEnv(t, "")
	env.mustRun(t, "alias", roomUUID, "standup")
	env.mustRun(t, "alias", "standup", "daily")

	if id, _ := env.deps.App.Aliases.Resolve("daily"); id != roomUUID {
		t.Errorf("daily = %q, want the room id %q behind standup", id, roomUUID)
	}
}
