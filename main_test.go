//go:build !(js && wasm)

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voxelsplace/blockpack/config"
)

func writeRunConfig(t *testing.T, dir string) (cfgPath, logPath string) {
	t.Helper()
	logPath = filepath.Join(dir, "run.log")
	body := fmt.Sprintf("catalog: %q\noutput: %q\nlog:\n  file: %q\n",
		filepath.Join(dir, "missing.json"), filepath.Join(dir, "out"), logPath)
	cfgPath = filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(cfgPath, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath, logPath
}

func TestRunRejectsBadArguments(t *testing.T) {
	for _, args := range [][]string{{"bogus"}, {"funcpack", "only.yaml"}, {"batch", "c.yaml", "funcpack"}, {"recolor"}} {
		if err := run(args[0], args[1:]); !errors.Is(err, errUsage) {
			t.Fatalf("%v: got %v", args, err)
		}
	}
}

func TestRunReturnsCommandErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath, _ := writeRunConfig(t, dir)
	err := run("structpack", []string{cfgPath, filepath.Join(dir, "missing.png")})
	if err == nil || errors.Is(err, errUsage) {
		t.Fatalf("got %v", err)
	}
}

func TestWithConfigClosesLogOnError(t *testing.T) {
	dir := t.TempDir()
	cfgPath, logPath := writeRunConfig(t, dir)
	boom := errors.New("boom")
	err := withConfig(cfgPath, func(_ *config.Config, logger *log.Logger) error {
		logger.Printf("starting")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "starting") {
		t.Fatalf("log contents %q", data)
	}
}
