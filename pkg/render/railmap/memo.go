package railmap

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/topology"
)

// Key returns the recomputation key of a render: a SHA-256 over the
// topology and parameters. Any change to either yields a different key.
func Key(t *topology.Topology, p layout.Params) (string, error) {
	data, err := json.Marshal(struct {
		Topology *topology.Topology `json:"topology"`
		Params   layout.Params      `json:"params"`
	}{t, p})
	if err != nil {
		return "", rmerrors.Wrap(rmerrors.ErrCodeInternal, err, "hash render inputs")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Memo remembers the most recent diagram. A call with a different key
// replaces it; there is no partial invalidation.
//
// The zero value is ready to use and safe for concurrent use.
type Memo struct {
	mu      sync.Mutex
	key     string
	diagram *Diagram
	hits    int
	misses  int
}

// Compose returns the diagram for t under p, reusing the remembered one
// when the key matches. The boolean reports a hit. Failed compositions
// are not remembered. Inputs are validated before hashing, so non-finite
// values surface as INVALID_* errors rather than hash failures.
func (m *Memo) Compose(t *topology.Topology, p layout.Params) (*Diagram, bool, error) {
	if err := t.Validate(); err != nil {
		return nil, false, err
	}
	if err := p.Validate(); err != nil {
		return nil, false, err
	}
	key, err := Key(t, p)
	if err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.diagram != nil && m.key == key {
		m.hits++
		return m.diagram, true, nil
	}
	m.misses++

	d, err := Compose(t, p)
	if err != nil {
		return nil, false, err
	}
	m.key, m.diagram = key, d
	return d, false, nil
}

// Reset forgets the remembered diagram.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key, m.diagram = "", nil
}

// Stats returns the hit and miss counts since creation.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}
