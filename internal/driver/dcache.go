package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"bashguard/internal/diag"
	"bashguard/internal/rules"
	"bashguard/internal/source"
)

// Increment when the cached payload format changes; stale entries are
// silently treated as misses.
const diskCacheSchemaVersion uint16 = 1

// Digest keys a cache entry: content hash mixed with the rule configuration.
type Digest [32]byte

// DiskCache memoizes per-file diagnostics on disk, keyed by script content
// and rule configuration. It is a pure accelerator: a hit replays exactly
// what a fresh analysis would produce, so results never depend on cache
// state. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes a cache under XDG_CACHE_HOME (or ~/.cache).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Key derives the cache key for one script under one rule configuration.
// Any change to the content, the enabled rule set, the severity floor or the
// diagnostic cap changes the key.
func Key(file *source.File, opts Options) Digest {
	h := sha256.New()
	h.Write(file.Hash[:])
	h.Write([]byte{byte(diskCacheSchemaVersion), byte(diskCacheSchemaVersion >> 8)})
	h.Write([]byte{byte(opts.SeverityFloor)})
	// maxDiagnostics is always positive, so the widening is loss-free.
	limit := uint64(opts.maxDiagnostics())
	h.Write([]byte{
		byte(limit), byte(limit >> 8), byte(limit >> 16), byte(limit >> 24),
		byte(limit >> 32), byte(limit >> 40), byte(limit >> 48), byte(limit >> 56),
	})
	for _, id := range ruleIDs(opts.registry()) {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	var d Digest
	h.Sum(d[:0])
	return d
}

func ruleIDs(reg *rules.Registry) []string {
	ids := make([]string, 0, reg.Len())
	for _, r := range reg.Rules() {
		ids = append(ids, r.Code.ID())
	}
	sort.Strings(ids)
	return ids
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "diags", hex.EncodeToString(key[:])+".mp")
}

// diskPayload is the serialized form of one file's diagnostics. Spans are
// stored as offsets only; the FileID is re-stamped on load since ids are
// per-FileSet.
type diskPayload struct {
	Schema uint16
	Diags  []cachedDiag
}

type cachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []cachedNote
	Fixes    []cachedFix
}

type cachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

type cachedFix struct {
	Title        string
	Tier         uint8
	Assumptions  []string
	Alternatives []string
	Edits        []cachedEdit
}

type cachedEdit struct {
	Start   uint32
	End     uint32
	NewText string
	OldText string
}

// Put stores the diagnostics for key. Writes go through a temp file and an
// atomic rename so readers never observe a partial entry.
func (c *DiskCache) Put(key Digest, diags []diag.Diagnostic) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	payload := diskPayload{Schema: diskCacheSchemaVersion}
	payload.Diags = make([]cachedDiag, len(diags))
	for i, d := range diags {
		payload.Diags[i] = encodeDiag(d)
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the diagnostics for key, re-stamped onto file. The second return
// is false on a miss or a schema mismatch.
func (c *DiskCache) Get(key Digest, file source.FileID) ([]diag.Diagnostic, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	out := make([]diag.Diagnostic, len(payload.Diags))
	for i, cd := range payload.Diags {
		out[i] = decodeDiag(cd, file)
	}
	return out, true, nil
}

// DropAll wipes the cache, useful after a format change.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, "diags")); err != nil {
		return err
	}
	return nil
}

func encodeDiag(d diag.Diagnostic) cachedDiag {
	cd := cachedDiag{
		Severity: uint8(d.Severity),
		Code:     uint16(d.Code),
		Message:  d.Message,
		Start:    d.Primary.Start,
		End:      d.Primary.End,
	}
	for _, n := range d.Notes {
		cd.Notes = append(cd.Notes, cachedNote{
			Start: n.Span.Start, End: n.Span.End, Msg: n.Msg,
		})
	}
	for _, fx := range d.Fixes {
		cf := cachedFix{
			Title:        fx.Title,
			Tier:         uint8(fx.Tier),
			Assumptions:  fx.Assumptions,
			Alternatives: fx.Alternatives,
		}
		for _, e := range fx.Edits {
			cf.Edits = append(cf.Edits, cachedEdit{
				Start: e.Span.Start, End: e.Span.End,
				NewText: e.NewText, OldText: e.OldText,
			})
		}
		cd.Fixes = append(cd.Fixes, cf)
	}
	return cd
}

func decodeDiag(cd cachedDiag, file source.FileID) diag.Diagnostic {
	d := diag.Diagnostic{
		Severity: diag.Severity(cd.Severity),
		Code:     diag.Code(cd.Code),
		Message:  cd.Message,
		Primary:  source.Span{File: file, Start: cd.Start, End: cd.End},
	}
	for _, n := range cd.Notes {
		d.Notes = append(d.Notes, diag.Note{
			Span: source.Span{File: file, Start: n.Start, End: n.End},
			Msg:  n.Msg,
		})
	}
	for _, cf := range cd.Fixes {
		fx := diag.Fix{
			Title:        cf.Title,
			Tier:         diag.FixTier(cf.Tier),
			Assumptions:  cf.Assumptions,
			Alternatives: cf.Alternatives,
		}
		for _, e := range cf.Edits {
			fx.Edits = append(fx.Edits, diag.TextEdit{
				Span:    source.Span{File: file, Start: e.Start, End: e.End},
				NewText: e.NewText,
				OldText: e.OldText,
			})
		}
		d.Fixes = append(d.Fixes, fx)
	}
	return d
}
