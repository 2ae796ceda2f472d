// Package library persists imported symbol libraries. Part definitions are
// gob-encoded into a bolt database and their names indexed with bleve for
// free-text lookup.
package library

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve"
	"github.com/boltdb/bolt"

	"github.com/openboardtools/eaglesch/pkg/schematic"
)

const (
	dbFile    = "symbols.db"
	indexFile = "symbols.index"

	librariesBucket = "libraries"
	partsBucket     = "parts"
)

// Gob needs the concrete draw-item types behind the LibItem interface.
func init() {
	gob.Register(&schematic.LibCircle{})
	gob.Register(&schematic.LibRect{})
	gob.Register(&schematic.LibPolyline{})
	gob.Register(&schematic.LibArc{})
	gob.Register(&schematic.LibText{})
	gob.Register(&schematic.LibPin{})
}

func marshal(v interface{}) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := gob.NewEncoder(b).Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func unmarshal(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewBuffer(data)).Decode(v)
}

// PartRef identifies a stored part.
type PartRef struct {
	Library string
	Part    string
}

// partDoc is the bleve document for one part.
type partDoc struct {
	Name    string
	Library string
}

// Store is an on-disk symbol library collection.
type Store struct {
	root  string
	db    *bolt.DB
	index bleve.Index
}

// Open creates or opens a store rooted at a directory.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating library root: %w", err)
	}

	db, err := bolt.Open(filepath.Join(root, dbFile), 0o644, nil)
	if err != nil {
		return nil, fmt.Errorf("opening library database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(librariesBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(partsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing library database: %w", err)
	}

	var index bleve.Index
	ipath := filepath.Join(root, indexFile)
	if _, err := os.Stat(ipath); err == nil {
		index, err = bleve.Open(ipath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("opening library index: %w", err)
		}
	} else {
		index, err = bleve.New(ipath, bleve.NewIndexMapping())
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating library index: %w", err)
		}
	}

	return &Store{root: root, db: db, index: index}, nil
}

// Close releases the database and the search index.
func (s *Store) Close() error {
	ierr := s.index.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return ierr
}

func partKey(library, part string) []byte {
	return []byte(library + "/" + part)
}

// SaveLibrary writes every part of the library, replacing any previous
// version with the same name. Satisfies the importer's LibraryWriter.
func (s *Store) SaveLibrary(lib *schematic.Library) error {
	parts := lib.Parts()
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, p.Name)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		order, err := marshal(names)
		if err != nil {
			return err
		}
		if err := tx.Bucket([]byte(librariesBucket)).Put([]byte(lib.Name), order); err != nil {
			return err
		}

		bucket := tx.Bucket([]byte(partsBucket))
		for _, p := range parts {
			data, err := marshal(p)
			if err != nil {
				return err
			}
			if err := bucket.Put(partKey(lib.Name, p.Name), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving library %q: %w", lib.Name, err)
	}

	batch := s.index.NewBatch()
	for _, p := range parts {
		if err := batch.Index(string(partKey(lib.Name, p.Name)), partDoc{Name: p.Name, Library: lib.Name}); err != nil {
			return fmt.Errorf("indexing library %q: %w", lib.Name, err)
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("indexing library %q: %w", lib.Name, err)
	}
	return nil
}

// Part loads one stored part definition.
func (s *Store) Part(library, part string) (*schematic.LibPart, error) {
	var p schematic.LibPart
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(partsBucket)).Get(partKey(library, part))
		if data == nil {
			return fmt.Errorf("part %q not found in library %q", part, library)
		}
		return unmarshal(data, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Library reassembles a stored library in its original part order.
func (s *Store) Library(name string) (*schematic.Library, error) {
	lib := schematic.NewLibrary(name)
	err := s.db.View(func(tx *bolt.Tx) error {
		order := tx.Bucket([]byte(librariesBucket)).Get([]byte(name))
		if order == nil {
			return fmt.Errorf("library %q not found", name)
		}
		var names []string
		if err := unmarshal(order, &names); err != nil {
			return err
		}

		bucket := tx.Bucket([]byte(partsBucket))
		for _, pname := range names {
			data := bucket.Get(partKey(name, pname))
			if data == nil {
				return fmt.Errorf("library %q is missing part %q", name, pname)
			}
			var p schematic.LibPart
			if err := unmarshal(data, &p); err != nil {
				return err
			}
			lib.Add(&p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Names lists the stored library names.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(librariesBucket)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Find searches part names across all stored libraries.
func (s *Store) Find(text string) ([]PartRef, error) {
	query := bleve.NewMatchQuery(text)
	query.SetField("Name")

	result, err := s.index.Search(bleve.NewSearchRequest(query))
	if err != nil {
		return nil, fmt.Errorf("searching libraries: %w", err)
	}

	var refs []PartRef
	for _, hit := range result.Hits {
		lib, part, ok := splitPartKey(hit.ID)
		if !ok {
			continue
		}
		refs = append(refs, PartRef{Library: lib, Part: part})
	}
	return refs, nil
}

func splitPartKey(id string) (library, part string, ok bool) {
	for i := 0; i < len(id); i++ {
		if id[i] == '/' {
			return id[:i], id[i+1:], true
		}
	}
	return "", "", false
}
