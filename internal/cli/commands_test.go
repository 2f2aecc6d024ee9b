package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"romkit/internal/catalog"
	"romkit/internal/config"
	"romkit/internal/testsupport"
)

const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, NewRootCommand(), []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Config path: "+env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, NewRootCommand(), []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, NewRootCommand(), []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if _, _, err := runCLI(t, NewRootCommand(), []string{"config", "validate"}, target); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[verifier]\nbackend = \"md5\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := runCLI(t, NewRootCommand(WithQuerier(&fakeQuerier{})), []string{"get-diambra-engine-version"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "verifier.backend") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected nothing on stdout, got %q", stdout)
	}
}

func TestStandaloneCommandsFallBackToDefaultsOnBadConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[logging]\nlevel = \"loud\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	querier := &fakeQuerier{versions: map[string]string{"diambra-engine": "2.2.4"}}
	stdout, stderr, err := runCLI(t, NewEngineVersionCommand(WithQuerier(querier)), nil, env.configPath)
	if err != nil {
		t.Fatalf("get-diambra-engine-version: %v", err)
	}
	if stdout != "2.2.4\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
	requireContains(t, stderr, "config file ignored")
	requireContains(t, stderr, "logging.level")

	t.Setenv(config.RomsPathEnv, "/roms")
	verifier := &recordingVerifier{}
	if _, _, err := runCLI(t, NewCheckRomsCommand(WithVerifier(verifier)), []string{"a.zip"}, env.configPath); err != nil {
		t.Fatalf("check-roms: %v", err)
	}
	if len(verifier.paths) != 1 || verifier.paths[0] != "/roms/a.zip" {
		t.Fatalf("unexpected paths %v", verifier.paths)
	}
}

func TestCatalogAddListRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteBytes(t, filepath.Join(env.cfg.Paths.RomsDir, "sfiii3n.zip"), []byte("hello"))

	out, _, err := runCLI(t, NewRootCommand(), []string{"catalog", "add", "--title", "Street Fighter III: 3rd Strike", "sfiii3n.zip"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog add: %v", err)
	}
	requireContains(t, out, "Added sfiii3n.zip ("+helloSHA256+")")

	if _, _, err := runCLI(t, NewRootCommand(), []string{"catalog", "add", "sfiii3n.zip"}, env.configPath); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, _, err := runCLI(t, NewRootCommand(), []string{"catalog", "add", "--replace", "sfiii3n.zip"}, env.configPath); err != nil {
		t.Fatalf("catalog add --replace: %v", err)
	}

	out, _, err = runCLI(t, NewRootCommand(), []string{"catalog", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	var entries []catalog.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode catalog list: %v (%s)", err, out)
	}
	if len(entries) != 1 || entries[0].ID != "sfiii3n" || entries[0].SHA256 != helloSHA256 {
		t.Fatalf("unexpected entries: %#v", entries)
	}

	out, _, err = runCLI(t, NewRootCommand(), []string{"catalog", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	requireContains(t, out, "sfiii3n")
	requireContains(t, out, helloSHA256[:12])

	if _, _, err := runCLI(t, NewRootCommand(), []string{"catalog", "remove", "sfiii3n.zip"}, env.configPath); err != nil {
		t.Fatalf("catalog remove: %v", err)
	}
	out, _, err = runCLI(t, NewRootCommand(), []string{"catalog", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	requireContains(t, out, "is empty")
}

func TestCatalogAddTitleRequiresSingleRom(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, NewRootCommand(), []string{"catalog", "add", "--title", "X", "a.zip", "b.zip"}, env.configPath)
	if err == nil {
		t.Fatal("expected usage error")
	}
}

func TestListRoms(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteBytes(t, filepath.Join(env.cfg.Paths.RomsDir, "doapp.zip"), []byte("hello"))
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.RomsDir, "kof98umh.zip"), 2048)
	if err := os.MkdirAll(filepath.Join(env.cfg.Paths.RomsDir, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, NewRootCommand(), []string{"catalog", "add", "--title", "Dead or Alive ++", "doapp.zip"}, env.configPath); err != nil {
		t.Fatalf("catalog add: %v", err)
	}

	out, _, err := runCLI(t, NewRootCommand(), []string{"list-roms", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("list-roms: %v", err)
	}
	var listings []romListing
	if err := json.Unmarshal([]byte(out), &listings); err != nil {
		t.Fatalf("decode: %v (%s)", err, out)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 roms, got %#v", listings)
	}
	if listings[0].File != "doapp.zip" || !listings[0].Catalogued || listings[0].Title != "Dead or Alive ++" {
		t.Fatalf("unexpected first listing: %#v", listings[0])
	}
	if listings[1].File != "kof98umh.zip" || listings[1].Catalogued || listings[1].Size != 2048 {
		t.Fatalf("unexpected second listing: %#v", listings[1])
	}

	out, _, err = runCLI(t, NewRootCommand(), []string{"list-roms"}, env.configPath)
	if err != nil {
		t.Fatalf("list-roms: %v", err)
	}
	requireContains(t, out, "2.0 KiB")
}

func TestListRomsMissingDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, NewRootCommand(), []string{"--roms-path", filepath.Join(env.baseDir, "missing"), "list-roms"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing directory error, got %v", err)
	}
}

func TestDoctor(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubInterpreter("exit 0"))
	querier := &fakeQuerier{versions: map[string]string{"diambra-engine": "2.2.4", "diambra-arena": "2.2.7"}}

	out, _, err := runCLI(t, NewRootCommand(WithQuerier(querier)), []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Python interpreter")
	requireContains(t, out, "docker.io/diambra/engine:v2.2")
	requireContains(t, out, "Package diambra-arena")

	out, _, err = runCLI(t, NewRootCommand(WithQuerier(&fakeQuerier{})), []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to fail when the engine package is missing")
	}
	requireContains(t, out, "FAILED")
}

func TestCachePrune(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCache())
	rom := filepath.Join(env.cfg.Paths.RomsDir, "doapp.zip")
	testsupport.WriteBytes(t, rom, []byte("hello"))
	if _, _, err := runCLI(t, NewRootCommand(), []string{"catalog", "add", "doapp.zip"}, env.configPath); err != nil {
		t.Fatalf("catalog add: %v", err)
	}
	if _, _, err := runCLI(t, NewCheckRomsCommand(), []string{"--backend", "catalog", "doapp.zip"}, env.configPath); err != nil {
		t.Fatalf("check-roms: %v", err)
	}
	if err := os.Remove(rom); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, NewRootCommand(), []string{"cache", "prune"}, env.configPath)
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "Removed 1 stale digests (0 cached)")
}
