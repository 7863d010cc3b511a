package dashboard

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	pinnedComparisonsDir = "pinned_comparisons"
	metaDir              = "meta"
)

func NewJSONStore(dir string) Store {
	return &JSONStore{
		base: dir,
	}
}

type JSONStore struct {
	base string

	mutex sync.RWMutex
}

func (rs *JSONStore) listFiles(dir string) ([]string, error) {
	files, err := ioutil.ReadDir(dir)

	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	var list []string

	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		list = append(list, strings.TrimSuffix(file.Name(), ".json"))
	}

	return list, nil
}

func (rs *JSONStore) encodeFile(path string, filename string, data interface{}) error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	filename = filepath.Join(path, filename)

	dir := filepath.Dir(filename)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, 0755)

		if err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	f, err := os.Create(filename)

	if err != nil {
		return err
	}

	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	return enc.Encode(data)
}

func (rs *JSONStore) decodeFile(path string, filename string, out interface{}) error {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	filename = filepath.Join(path, filename)

	f, err := os.Open(filename)

	if err != nil {
		return err
	}

	defer f.Close()

	return json.NewDecoder(f).Decode(out)
}

func (rs *JSONStore) UpsertPinnedComparison(p *PinnedComparison) error {
	p.Updated = time.Now()

	return rs.encodeFile(rs.base, filepath.Join(pinnedComparisonsDir, p.ID.String()+".json"), p)
}

func (rs *JSONStore) ListPinnedComparisons() ([]*PinnedComparison, error) {
	files, err := rs.listFiles(filepath.Join(rs.base, pinnedComparisonsDir))

	if err != nil {
		return nil, err
	}

	var pinned []*PinnedComparison

	for _, file := range files {
		p, err := rs.LoadPinnedComparison(file)

		if err != nil || !p.Deleted.IsZero() {
			continue
		}

		pinned = append(pinned, p)
	}

	sort.Slice(pinned, func(i, j int) bool {
		return pinned[i].Created.After(pinned[j].Created)
	})

	return pinned, nil
}

func (rs *JSONStore) LoadPinnedComparison(id string) (*PinnedComparison, error) {
	var p *PinnedComparison

	err := rs.decodeFile(rs.base, filepath.Join(pinnedComparisonsDir, filepath.Base(id)+".json"), &p)

	if os.IsNotExist(err) {
		return nil, ErrPinnedComparisonNotFound
	} else if err != nil {
		return nil, err
	}

	return p, nil
}

func (rs *JSONStore) DeletePinnedComparison(id string) error {
	p, err := rs.LoadPinnedComparison(id)

	if err != nil {
		return err
	}

	p.Deleted = time.Now()

	return rs.UpsertPinnedComparison(p)
}

func (rs *JSONStore) SetMeta(key string, value interface{}) error {
	return rs.encodeFile(rs.base, filepath.Join(metaDir, key+".json"), value)
}

func (rs *JSONStore) GetMeta(key string, out interface{}) error {
	err := rs.decodeFile(rs.base, filepath.Join(metaDir, key+".json"), out)

	if os.IsNotExist(err) {
		return ErrValueNotSet
	}

	return err
}

func (rs *JSONStore) Close() error {
	return nil
}
