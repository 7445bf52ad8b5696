package server

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pdrpinto/metro"
)

// session owns one engine. The engine is not safe for concurrent use, so
// steps are serialized.
type session struct {
	mu     sync.Mutex
	engine *metro.Engine
}

func (s *session) step() (metro.StepSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Step()
}

// sessionStore keeps the most recently used sessions; older ones are evicted.
type sessionStore struct {
	cache *lru.Cache[string, *session]
}

func newSessionStore(size int) (*sessionStore, error) {
	cache, err := lru.New[string, *session](size)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}
	return &sessionStore{cache: cache}, nil
}

func (st *sessionStore) add(engine *metro.Engine) string {
	id := uuid.NewString()
	st.cache.Add(id, &session{engine: engine})
	return id
}

func (st *sessionStore) get(id string) (*session, bool) {
	return st.cache.Get(id)
}

func (st *sessionStore) size() int { return st.cache.Len() }

type nodeView struct {
	State metro.State   `json:"state"`
	G     float64       `json:"g"`
	H     float64       `json:"h"`
	Cost  float64       `json:"cost"`
	Path  []metro.State `json:"path"`
}

type stepView struct {
	Step     int           `json:"step"`
	Status   string        `json:"status"`
	Done     bool          `json:"done"`
	Current  *nodeView     `json:"current,omitempty"`
	Frontier []nodeView    `json:"frontier"`
	Path     []metro.State `json:"path,omitempty"`
	Cost     float64       `json:"cost,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func newNodeView(node *metro.SearchNode) nodeView {
	return nodeView{
		State: node.State(),
		G:     node.G(),
		H:     node.H(),
		Cost:  node.Cost(),
		Path:  node.Path(),
	}
}

func newStepView(snapshot metro.StepSnapshot) stepView {
	view := stepView{
		Step:     snapshot.Index,
		Status:   snapshot.Status.String(),
		Done:     snapshot.Done(),
		Frontier: make([]nodeView, 0, len(snapshot.Frontier)),
		Path:     snapshot.Path,
		Cost:     snapshot.Cost,
	}
	if snapshot.Current != nil {
		current := newNodeView(snapshot.Current)
		view.Current = &current
	}
	for i := range snapshot.Frontier {
		view.Frontier = append(view.Frontier, newNodeView(&snapshot.Frontier[i]))
	}
	return view
}
