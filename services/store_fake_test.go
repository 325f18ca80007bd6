package services

import (
	"context"
	"log/slog"
	"maps"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// memState is the whole fake database. Rows are stored by value so a
// snapshot is a shallow map copy.
type memState struct {
	nextID    int
	events    map[int]models.LeagueEvent
	groups    map[int]models.Group
	members   map[int]models.GroupMember
	matches   map[int]models.GroupMatch
	standings map[int][]models.GroupStanding
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:    s.nextID,
		events:    maps.Clone(s.events),
		groups:    maps.Clone(s.groups),
		members:   maps.Clone(s.members),
		matches:   maps.Clone(s.matches),
		standings: make(map[int][]models.GroupStanding, len(s.standings)),
	}
	for k, v := range s.standings {
		c.standings[k] = append([]models.GroupStanding(nil), v...)
	}
	return c
}

// memStore backs every repository interface with memState. FailFunc, when
// set, is consulted before each operation and can inject an error.
type memStore struct {
	mu    sync.Mutex
	state *memState

	instances   []*models.LeagueInstance
	registrants map[int]*models.Registrant

	FailFunc func(op string) error

	// Call records
	Ops         []string
	LockedGroup []int
	Replaced    []int
	// RowLocks в порядке взятия: "group:<id>" для FOR UPDATE, "event:<id>" для Touch
	RowLocks []string
}

func newMemStore() *memStore {
	return &memStore{
		state: &memState{
			events:    map[int]models.LeagueEvent{},
			groups:    map[int]models.Group{},
			members:   map[int]models.GroupMember{},
			matches:   map[int]models.GroupMatch{},
			standings: map[int][]models.GroupStanding{},
		},
		registrants: map[int]*models.Registrant{},
	}
}

func (m *memStore) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *memStore) restore(s *memState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

// enter locks the store and records op; the caller must unlock.
func (m *memStore) enter(op string) error {
	m.mu.Lock()
	m.Ops = append(m.Ops, op)
	if m.FailFunc != nil {
		if err := m.FailFunc(op); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	return nil
}

func (m *memStore) newID() int {
	m.state.nextID++
	return m.state.nextID
}

func (m *memStore) addInstance(id int, playerIDs ...int) *models.LeagueInstance {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst := &models.LeagueInstance{ID: id}
	m.instances = append(m.instances, inst)
	for _, pid := range playerIDs {
		m.registrants[pid] = &models.Registrant{ID: pid, LeagueInstanceID: id, FirstName: "Player", LastName: string(rune('A' + pid%26))}
	}
	return inst
}

func (m *memStore) countOp(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.Ops {
		if o == op {
			n++
		}
	}
	return n
}

func (m *memStore) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.events)
}

func (m *memStore) matchByPair(groupID, a, b int) models.GroupMatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := models.NewPairKey(a, b)
	for _, match := range m.state.matches {
		if match.GroupID == groupID && match.PairKey() == key {
			return match
		}
	}
	return models.GroupMatch{}
}

func (m *memStore) groupsOf(eventID int) []models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Group
	for _, g := range m.state.groups {
		if g.LeagueEventID == eventID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupNumber < out[j].GroupNumber })
	return out
}

func (m *memStore) storedStandings(groupID int) []models.GroupStanding {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.GroupStanding(nil), m.state.standings[groupID]...)
}

// --- LeagueInstanceRepository ---

type memInstanceRepo struct{ *memStore }

func (r memInstanceRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.LeagueInstance, error) {
	if err := r.enter("instance.GetByID"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.ID == id {
			c := *inst
			return &c, nil
		}
	}
	return nil, repositories.ErrLeagueInstanceNotFound
}

func (r memInstanceRepo) GetMostRecent(ctx context.Context, exec repositories.SQLExecutor) (*models.LeagueInstance, error) {
	if err := r.enter("instance.GetMostRecent"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	if len(r.instances) == 0 {
		return nil, repositories.ErrLeagueInstanceNotFound
	}
	c := *r.instances[len(r.instances)-1]
	return &c, nil
}

func (r memInstanceRepo) ListRegistrantsByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) ([]*models.Registrant, error) {
	if err := r.enter("instance.ListRegistrantsByIDs"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	out := make([]*models.Registrant, 0, len(ids))
	for _, id := range ids {
		if reg, ok := r.registrants[id]; ok {
			c := *reg
			out = append(out, &c)
		}
	}
	return out, nil
}

// --- LeagueEventRepository ---

type memEventRepo struct{ *memStore }

func (r memEventRepo) find(instanceID int, date time.Time) (models.LeagueEvent, bool) {
	for _, e := range r.state.events {
		if e.LeagueInstanceID == instanceID && e.EventDate.Equal(date) {
			return e, true
		}
	}
	return models.LeagueEvent{}, false
}

func (r memEventRepo) insert(e *models.LeagueEvent) error {
	known := false
	for _, inst := range r.instances {
		known = known || inst.ID == e.LeagueInstanceID
	}
	if !known {
		return repositories.ErrLeagueEventInstanceInvalid
	}
	e.ID = r.newID()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.state.events[e.ID] = *e
	return nil
}

func (r memEventRepo) Create(ctx context.Context, exec repositories.SQLExecutor, e *models.LeagueEvent) error {
	if err := r.enter("event.Create"); err != nil {
		return err
	}
	defer r.mu.Unlock()
	if _, exists := r.find(e.LeagueInstanceID, e.EventDate); exists {
		return repositories.ErrLeagueEventConflict
	}
	return r.insert(e)
}

func (r memEventRepo) FindOrCreate(ctx context.Context, exec repositories.SQLExecutor, e *models.LeagueEvent) error {
	if err := r.enter("event.FindOrCreate"); err != nil {
		return err
	}
	defer r.mu.Unlock()
	if existing, ok := r.find(e.LeagueInstanceID, e.EventDate); ok {
		*e = existing
		return nil
	}
	return r.insert(e)
}

func (r memEventRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.LeagueEvent, error) {
	if err := r.enter("event.GetByID"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	e, ok := r.state.events[id]
	if !ok {
		return nil, repositories.ErrLeagueEventNotFound
	}
	return &e, nil
}

func (r memEventRepo) Touch(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if err := r.enter("event.Touch"); err != nil {
		return err
	}
	defer r.mu.Unlock()
	e, ok := r.state.events[id]
	if !ok {
		return repositories.ErrLeagueEventNotFound
	}
	e.UpdatedAt = time.Now()
	r.state.events[id] = e
	r.RowLocks = append(r.RowLocks, "event:"+strconv.Itoa(id))
	return nil
}

// --- GroupRepository ---

type memGroupRepo struct{ *memStore }

func (r memGroupRepo) Create(ctx context.Context, exec repositories.SQLExecutor, g *models.Group) error {
	if err := r.enter("group.Create"); err != nil {
		return err
	}
	defer r.mu.Unlock()
	if _, ok := r.state.events[g.LeagueEventID]; !ok {
		return repositories.ErrGroupEventInvalid
	}
	for _, existing := range r.state.groups {
		if existing.LeagueEventID == g.LeagueEventID && existing.GroupNumber == g.GroupNumber {
			return repositories.ErrGroupNumberConflict
		}
	}
	g.ID = r.newID()
	g.CreatedAt = time.Now()
	r.state.groups[g.ID] = *g
	return nil
}

func (r memGroupRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Group, error) {
	if err := r.enter("group.GetByID"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	g, ok := r.state.groups[id]
	if !ok {
		return nil, repositories.ErrGroupNotFound
	}
	return &g, nil
}

func (r memGroupRepo) LockByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Group, error) {
	if err := r.enter("group.LockByID"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	g, ok := r.state.groups[id]
	if !ok {
		return nil, repositories.ErrGroupNotFound
	}
	r.LockedGroup = append(r.LockedGroup, id)
	r.RowLocks = append(r.RowLocks, "group:"+strconv.Itoa(id))
	return &g, nil
}

func (r memGroupRepo) ListByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) ([]*models.Group, error) {
	if err := r.enter("group.ListByEvent"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	out := make([]*models.Group, 0)
	for _, g := range r.state.groups {
		if g.LeagueEventID == eventID {
			c := g
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupNumber < out[j].GroupNumber })
	return out, nil
}

func (r memGroupRepo) AddMember(ctx context.Context, exec repositories.SQLExecutor, gm *models.GroupMember) error {
	if err := r.enter("group.AddMember"); err != nil {
		return err
	}
	defer r.mu.Unlock()
	if _, ok := r.registrants[gm.PlayerID]; !ok {
		return repositories.ErrGroupMemberPlayerRef
	}
	for _, existing := range r.state.members {
		if existing.GroupID == gm.GroupID && existing.PlayerID == gm.PlayerID {
			return repositories.ErrGroupMemberConflict
		}
	}
	gm.ID = r.newID()
	gm.CreatedAt = time.Now()
	r.state.members[gm.ID] = *gm
	return nil
}

func (r memGroupRepo) membersWhere(pred func(models.GroupMember) bool) []*models.GroupMember {
	out := make([]*models.GroupMember, 0)
	for _, gm := range r.state.members {
		if pred(gm) {
			c := gm
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupID != out[j].GroupID {
			return out[i].GroupID < out[j].GroupID
		}
		return out[i].SeedOrder < out[j].SeedOrder
	})
	return out
}

func (r memGroupRepo) ListMembers(ctx context.Context, exec repositories.SQLExecutor, groupID int) ([]*models.GroupMember, error) {
	if err := r.enter("group.ListMembers"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	return r.membersWhere(func(gm models.GroupMember) bool { return gm.GroupID == groupID }), nil
}

func (r memGroupRepo) ListMembersByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) ([]*models.GroupMember, error) {
	if err := r.enter("group.ListMembersByEvent"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	return r.membersWhere(func(gm models.GroupMember) bool {
		return r.state.groups[gm.GroupID].LeagueEventID == eventID
	}), nil
}

// --- GroupMatchRepository ---

type memMatchRepo struct{ *memStore }

func (r memMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.GroupMatch) error {
	if err := r.enter("match.Create"); err != nil {
		return err
	}
	defer r.mu.Unlock()
	if match.Player1ID == match.Player2ID {
		return repositories.ErrGroupMatchPlayersInvalid
	}
	if _, ok := r.state.groups[match.GroupID]; !ok {
		return repositories.ErrGroupMatchGroupInvalid
	}
	for _, existing := range r.state.matches {
		if existing.GroupID == match.GroupID && existing.PairKey() == match.PairKey() {
			return repositories.ErrGroupMatchPairConflict
		}
	}
	match.ID = r.newID()
	match.Completed = match.Player1Score.Present() && match.Player2Score.Present()
	match.CreatedAt = time.Now()
	match.UpdatedAt = match.CreatedAt
	r.state.matches[match.ID] = *match
	return nil
}

func (r memMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.GroupMatch, error) {
	if err := r.enter("match.GetByID"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	match, ok := r.state.matches[id]
	if !ok {
		return nil, repositories.ErrGroupMatchNotFound
	}
	return &match, nil
}

func (r memMatchRepo) FindByPair(ctx context.Context, exec repositories.SQLExecutor, groupID, playerA, playerB int) (*models.GroupMatch, error) {
	if err := r.enter("match.FindByPair"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	key := models.NewPairKey(playerA, playerB)
	for _, match := range r.state.matches {
		if match.GroupID == groupID && match.PairKey() == key {
			c := match
			return &c, nil
		}
	}
	return nil, repositories.ErrGroupMatchNotFound
}

func (r memMatchRepo) UpdateScores(ctx context.Context, exec repositories.SQLExecutor, id int, score1, score2 models.Score) (*models.GroupMatch, error) {
	if err := r.enter("match.UpdateScores"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	match, ok := r.state.matches[id]
	if !ok {
		return nil, repositories.ErrGroupMatchNotFound
	}
	match.SetScores(score1, score2)
	match.UpdatedAt = time.Now()
	r.state.matches[id] = match
	return &match, nil
}

func (r memMatchRepo) matchesWhere(pred func(models.GroupMatch) bool) []*models.GroupMatch {
	out := make([]*models.GroupMatch, 0)
	for _, match := range r.state.matches {
		if pred(match) {
			c := match
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupID != out[j].GroupID {
			return out[i].GroupID < out[j].GroupID
		}
		return out[i].MatchOrder < out[j].MatchOrder
	})
	return out
}

func (r memMatchRepo) ListByGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int) ([]*models.GroupMatch, error) {
	if err := r.enter("match.ListByGroup"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	return r.matchesWhere(func(m models.GroupMatch) bool { return m.GroupID == groupID }), nil
}

func (r memMatchRepo) ListByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) ([]*models.GroupMatch, error) {
	if err := r.enter("match.ListByEvent"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	return r.matchesWhere(func(m models.GroupMatch) bool {
		return r.state.groups[m.GroupID].LeagueEventID == eventID
	}), nil
}

// --- GroupStandingRepository ---

type memStandingRepo struct{ *memStore }

func (r memStandingRepo) ReplaceForGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int, standings []*models.GroupStanding) error {
	if err := r.enter("standing.ReplaceForGroup"); err != nil {
		return err
	}
	defer r.mu.Unlock()
	rows := make([]models.GroupStanding, 0, len(standings))
	for _, st := range standings {
		st.ID = r.newID()
		st.UpdatedAt = time.Now()
		rows = append(rows, *st)
	}
	r.state.standings[groupID] = rows
	r.Replaced = append(r.Replaced, groupID)
	return nil
}

func (r memStandingRepo) ListByGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int) ([]*models.GroupStanding, error) {
	if err := r.enter("standing.ListByGroup"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	out := make([]*models.GroupStanding, 0)
	for _, st := range r.state.standings[groupID] {
		c := st
		out = append(out, &c)
	}
	return out, nil
}

func (r memStandingRepo) ListByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) ([]*models.GroupStanding, error) {
	if err := r.enter("standing.ListByEvent"); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()
	out := make([]*models.GroupStanding, 0)
	for groupID, rows := range r.state.standings {
		if r.state.groups[groupID].LeagueEventID != eventID {
			continue
		}
		for _, st := range rows {
			c := st
			out = append(out, &c)
		}
	}
	// Deliberately unordered by position so the view has to sort.
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID > out[j].PlayerID })
	return out, nil
}

// --- TxRunner ---

// fakeTx restores the store snapshot when the unit of work fails and goes
// through the same retry policy as the real runner.
type fakeTx struct {
	store    *memStore
	Attempts int
	// ReadOps хранит операции, выполненные внутри WithinReadTx
	ReadOps []string
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return retryTransient(ctx, slog.Default(), transientAttempts, func() error {
		f.Attempts++
		snap := f.store.snapshot()
		if err := fn(nil); err != nil {
			f.store.restore(snap)
			return err
		}
		return nil
	})
}

// WithinReadTx records which store operations ran inside the snapshot.
func (f *fakeTx) WithinReadTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return retryTransient(ctx, slog.Default(), transientAttempts, func() error {
		f.store.mu.Lock()
		before := len(f.store.Ops)
		f.store.mu.Unlock()

		err := fn(nil)

		f.store.mu.Lock()
		f.ReadOps = append(f.ReadOps, f.store.Ops[before:]...)
		f.store.mu.Unlock()
		return err
	})
}

// --- RoomBroadcaster ---

type recordingBroadcaster struct {
	mu    sync.Mutex
	Calls []struct {
		RoomID  string
		Message interface{}
	}
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, struct {
		RoomID  string
		Message interface{}
	}{roomID, message})
}
