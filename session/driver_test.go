package session

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestDriver_OpenCreatesDirectory(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "")
	if err != nil {
		t.Fatal("could not create tmp dir:", err)
	}
	defer os.RemoveAll(tmpDir)

	// A fresh checkout has no data directory yet.
	path := filepath.Join(tmpDir, "data", "nested", "session.db")

	driver := &Driver{}
	if err := driver.Open(path); err != nil {
		t.Fatalf("could not open bolt on file %s: %v", path, err)
	}
	defer driver.Close()

	store := &Store{Driver: driver}
	if err := store.Set(KeyUserID, "user-1"); err != nil {
		t.Fatal("error setting:", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatal("expected the database file to exist:", err)
	}
}

func TestDriver_OpenTwice(t *testing.T) {
	tmpFile, err := ioutil.TempFile("", "")
	if err != nil {
		t.Fatal("could not create tmp file:", err)
	}
	filename := tmpFile.Name()
	defer os.Remove(filename)

	driver := &Driver{}
	if err := driver.Open(filename); err != nil {
		t.Fatalf("could not open bolt on file %s: %v", filename, err)
	}
	defer driver.Close()

	if err := driver.Open(filename); err == nil {
		t.Fatal("expected an error opening an already open store")
	}
}
