package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/league-system/metrics"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// MatchResultInput is one score entry of the create and auto-save payloads.
// Player order may differ from the stored match; scores follow the order
// given here.
type MatchResultInput struct {
	Player1 int          `json:"player1"`
	Player2 int          `json:"player2"`
	Score1  models.Score `json:"score1"`
	Score2  models.Score `json:"score2"`
}

// ResultsByGroup maps a group key to entries keyed by a client match key.
type ResultsByGroup map[EntityKey]map[string]MatchResultInput

type CreateEventInput struct {
	LeagueInstanceID int                   `json:"leagueInstanceId"`
	EventDate        string                `json:"eventDate"`
	EventName        *string               `json:"eventName,omitempty"`
	GroupingMethod   models.GroupingMethod `json:"groupingMethod"`
	Groups           []GroupSpec           `json:"groups"`
	Matches          ResultsByGroup        `json:"matches,omitempty"`
}

type UpdateMatchInput struct {
	MatchID      int          `json:"matchId"`
	Player1Score models.Score `json:"player1_score"`
	Player2Score models.Score `json:"player2_score"`
}

// AutoSaveInput keys Results by stored group id.
type AutoSaveInput struct {
	LeagueEventID *int           `json:"league_event_id,omitempty"`
	Results       ResultsByGroup `json:"results"`
}

type AutoSaveResult struct {
	LeagueEventID    int   `json:"league_event_id"`
	Updated          int   `json:"updated"`
	Skipped          int   `json:"skipped"`
	RecomputedGroups []int `json:"recomputed_groups"`
}

type GroupView struct {
	*models.Group
	Members   []*models.GroupMember   `json:"members"`
	Matches   []*models.GroupMatch    `json:"matches"`
	Standings []*models.GroupStanding `json:"standings"`
}

type EventView struct {
	Event  *models.LeagueEvent `json:"event"`
	Groups []*GroupView        `json:"groups"`
}

type LeagueEventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.LeagueEvent, error)
	GetEvent(ctx context.Context, eventID int) (*EventView, error)
	UpdateMatch(ctx context.Context, input UpdateMatchInput) (*models.GroupMatch, error)
	AutoSaveResults(ctx context.Context, input AutoSaveInput) (*AutoSaveResult, error)
	// RecomputeEvent rebuilds the standings of every group of the event.
	RecomputeEvent(ctx context.Context, eventID int) ([]StandingsUpdate, error)
}

type leagueEventService struct {
	tx           TxRunner
	instanceRepo repositories.LeagueInstanceRepository
	eventRepo    repositories.LeagueEventRepository
	groupRepo    repositories.GroupRepository
	matchRepo    repositories.GroupMatchRepository
	standingRepo repositories.GroupStandingRepository
	composer     GroupComposer
	ledger       MatchLedger
	standings    StandingsService
	broadcaster  RoomBroadcaster
	metrics      metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

func NewLeagueEventService(
	tx TxRunner,
	instanceRepo repositories.LeagueInstanceRepository,
	eventRepo repositories.LeagueEventRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.GroupMatchRepository,
	standingRepo repositories.GroupStandingRepository,
	composer GroupComposer,
	ledger MatchLedger,
	standings StandingsService,
	broadcaster RoomBroadcaster,
	m metrics.Metrics,
	logger *slog.Logger,
) LeagueEventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &leagueEventService{
		tx:           tx,
		instanceRepo: instanceRepo,
		eventRepo:    eventRepo,
		groupRepo:    groupRepo,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		composer:     composer,
		ledger:       ledger,
		standings:    standings,
		broadcaster:  broadcaster,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

func defaultEventName(date time.Time) string {
	return "League Event " + date.Format("2006-01-02")
}

// seededResult is a creation-time score already oriented to the scheduled match.
type seededResult struct {
	score1, score2 models.Score
}

// CreateEvent persists the event, its groups, members and the complete
// round-robin schedule in one transaction. Standings are not computed here.
func (s *leagueEventService) CreateEvent(ctx context.Context, input CreateEventInput) (*models.LeagueEvent, error) {
	if input.LeagueInstanceID <= 0 {
		return nil, validationError("leagueInstanceId must be positive")
	}
	eventDate, err := models.ParseEventDate(strings.TrimSpace(input.EventDate))
	if err != nil {
		return nil, validationError("eventDate must be YYYY-MM-DD, got %q", input.EventDate)
	}
	method := input.GroupingMethod
	if method == "" {
		method = models.GroupingManual
	}

	composed, err := s.composer.ComposeGroups(ctx, input.Groups, method)
	if err != nil {
		return nil, err
	}
	seeds, err := resolveSeededResults(composed, input.Matches)
	if err != nil {
		return nil, err
	}

	name := defaultEventName(eventDate)
	if input.EventName != nil && strings.TrimSpace(*input.EventName) != "" {
		name = strings.TrimSpace(*input.EventName)
	}

	var event *models.LeagueEvent
	seededCount := 0
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		seededCount = 0
		if _, err := s.instanceRepo.GetByID(ctx, exec, input.LeagueInstanceID); err != nil {
			return handleRepositoryError(err, "load league instance")
		}

		event = &models.LeagueEvent{
			LeagueInstanceID: input.LeagueInstanceID,
			EventDate:        eventDate,
			Name:             name,
			GroupingMethod:   method,
			TotalGroups:      len(composed),
			Status:           models.EventStatusActive,
		}
		if err := s.eventRepo.Create(ctx, exec, event); err != nil {
			return handleRepositoryError(err, "create league event")
		}

		for _, cg := range composed {
			group := &models.Group{
				LeagueEventID: event.ID,
				GroupNumber:   cg.Number,
				Name:          cg.Name,
				Type:          models.GroupTypeRoundRobin,
			}
			if err := s.groupRepo.Create(ctx, exec, group); err != nil {
				return handleRepositoryError(err, fmt.Sprintf("create group %d", cg.Number))
			}

			for i, playerID := range cg.PlayerIDs {
				member := &models.GroupMember{GroupID: group.ID, PlayerID: playerID, SeedOrder: i + 1}
				if err := s.groupRepo.AddMember(ctx, exec, member); err != nil {
					return handleRepositoryError(err, fmt.Sprintf("add player %d to group %d", playerID, cg.Number))
				}
			}

			groupSeeds := seeds[cg.Number]
			for _, sm := range cg.Schedule {
				match := &models.GroupMatch{
					GroupID:    group.ID,
					Player1ID:  sm.Player1ID,
					Player2ID:  sm.Player2ID,
					MatchOrder: sm.MatchOrder,
				}
				if seed, ok := groupSeeds[models.NewPairKey(sm.Player1ID, sm.Player2ID)]; ok {
					match.SetScores(seed.score1, seed.score2)
					if seed.score1.Present() || seed.score2.Present() {
						seededCount++
					}
				}
				if err := s.matchRepo.Create(ctx, exec, match); err != nil {
					return handleRepositoryError(err, fmt.Sprintf("create match %s", sm.UID))
				}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "league event creation failed",
			slog.Int("league_instance_id", input.LeagueInstanceID),
			slog.String("event_date", input.EventDate),
			slog.Any("error", err),
		)
		return nil, err
	}

	if s.metrics != nil {
		for i := 0; i < seededCount; i++ {
			s.metrics.IncMatchUpdates(metrics.SourceCreate)
		}
	}
	s.logger.InfoContext(ctx, "league event created",
		slog.Int("event_id", event.ID),
		slog.Int("league_instance_id", event.LeagueInstanceID),
		slog.Int("groups", event.TotalGroups),
		slog.Int("seeded_matches", seededCount),
	)
	return event, nil
}

// resolveSeededResults checks creation-time results against the composed
// schedule. Unlike auto-save, an unknown group or pair here is a caller error.
func resolveSeededResults(composed []*ComposedGroup, results ResultsByGroup) (map[int]map[models.PairKey]seededResult, error) {
	seeds := make(map[int]map[models.PairKey]seededResult)
	if len(results) == 0 {
		return seeds, nil
	}

	byKey := make(map[EntityKey]*ComposedGroup, len(composed))
	for _, cg := range composed {
		byKey[cg.Key] = cg
	}

	for groupKey, entries := range results {
		cg, ok := byKey[groupKey]
		if !ok {
			return nil, validationError("seeded results reference unknown group %q", groupKey)
		}
		pairs := cg.PairIndex()
		groupSeeds := make(map[models.PairKey]seededResult, len(entries))
		for matchKey, entry := range entries {
			if entry.Player1 == entry.Player2 {
				return nil, validationError("seeded result %q in group %q pairs player %d with itself", matchKey, groupKey, entry.Player1)
			}
			key := models.NewPairKey(entry.Player1, entry.Player2)
			sm, ok := pairs[key]
			if !ok {
				return nil, validationError("seeded result %q: players %d and %d are not a pairing of group %q", matchKey, entry.Player1, entry.Player2, groupKey)
			}
			if _, dup := groupSeeds[key]; dup {
				return nil, validationError("seeded results for players %d and %d are given twice in group %q", entry.Player1, entry.Player2, groupKey)
			}
			s1, s2 := entry.Score1, entry.Score2
			if entry.Player1 != sm.Player1ID {
				s1, s2 = s2, s1
			}
			groupSeeds[key] = seededResult{score1: s1, score2: s2}
		}
		seeds[cg.Number] = groupSeeds
	}
	return seeds, nil
}

// UpdateMatch records the scores of one match and recomputes its group in
// the same transaction.
func (s *leagueEventService) UpdateMatch(ctx context.Context, input UpdateMatchInput) (*models.GroupMatch, error) {
	if input.MatchID <= 0 {
		return nil, validationError("matchId must be positive")
	}

	var updated *models.GroupMatch
	var update StandingsUpdate
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		current, err := s.matchRepo.GetByID(ctx, exec, input.MatchID)
		if err != nil {
			return handleRepositoryError(err, "load match")
		}
		group, err := s.groupRepo.LockByID(ctx, exec, current.GroupID)
		if err != nil {
			return handleRepositoryError(err, "lock group")
		}

		updated, err = s.ledger.RecordScore(ctx, exec, input.MatchID, input.Player1Score, input.Player2Score)
		if err != nil {
			return err
		}
		update, err = s.recomputeGroup(ctx, exec, group.LeagueEventID, group.ID)
		if err != nil {
			return err
		}
		update.Match = updated
		if err := s.eventRepo.Touch(ctx, exec, group.LeagueEventID); err != nil {
			return handleRepositoryError(err, "touch league event")
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "match update failed", slog.Int("match_id", input.MatchID), slog.Any("error", err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncMatchUpdates(metrics.SourceSingleUpdate)
	}
	s.recordRecomputes([]StandingsUpdate{update})
	s.logger.InfoContext(ctx, "match updated",
		slog.Int("match_id", updated.ID),
		slog.Int("group_id", updated.GroupID),
		slog.Bool("completed", updated.Completed),
	)
	publishStandings(s.broadcaster, []StandingsUpdate{update})
	return updated, nil
}

type autoSaveEntry struct {
	groupID  int
	matchKey string
	MatchResultInput
}

// flattenAutoSave validates the batch before any transaction starts and
// orders it by group id so group locks are always taken in the same order.
func flattenAutoSave(results ResultsByGroup) ([]autoSaveEntry, error) {
	entries := make([]autoSaveEntry, 0)
	for groupKey, byMatch := range results {
		groupID, err := strconv.Atoi(string(groupKey))
		if err != nil || groupID <= 0 {
			return nil, validationError("results key %q is not a group id", groupKey)
		}
		for matchKey, entry := range byMatch {
			if entry.Player1 <= 0 || entry.Player2 <= 0 {
				return nil, validationError("result %q in group %d is missing a player id", matchKey, groupID)
			}
			if entry.Player1 == entry.Player2 {
				return nil, validationError("result %q in group %d pairs player %d with itself", matchKey, groupID, entry.Player1)
			}
			entries = append(entries, autoSaveEntry{groupID: groupID, matchKey: matchKey, MatchResultInput: entry})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].groupID != entries[j].groupID {
			return entries[i].groupID < entries[j].groupID
		}
		return entries[i].matchKey < entries[j].matchKey
	})
	return entries, nil
}

// AutoSaveResults applies a batch of results to existing matches. Entries
// for groups outside the event or pairs with no stored match are skipped,
// never created. Every touched group is recomputed once.
func (s *leagueEventService) AutoSaveResults(ctx context.Context, input AutoSaveInput) (*AutoSaveResult, error) {
	if input.LeagueEventID != nil && *input.LeagueEventID <= 0 {
		return nil, validationError("league_event_id must be positive")
	}
	entries, err := flattenAutoSave(input.Results)
	if err != nil {
		return nil, err
	}

	var result *AutoSaveResult
	var updates []StandingsUpdate
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		result = &AutoSaveResult{RecomputedGroups: []int{}}
		updates = nil

		event, err := s.resolveAutoSaveEvent(ctx, exec, input.LeagueEventID)
		if err != nil {
			return err
		}
		result.LeagueEventID = event.ID

		for start := 0; start < len(entries); {
			groupID := entries[start].groupID
			end := start
			for end < len(entries) && entries[end].groupID == groupID {
				end++
			}
			batch := entries[start:end]
			start = end

			update, applied, err := s.applyGroupResults(ctx, exec, event.ID, groupID, batch)
			if err != nil {
				return err
			}
			result.Updated += applied
			result.Skipped += len(batch) - applied
			if update != nil {
				updates = append(updates, *update)
				result.RecomputedGroups = append(result.RecomputedGroups, groupID)
			}
		}

		if result.Updated > 0 {
			if err := s.eventRepo.Touch(ctx, exec, event.ID); err != nil {
				return handleRepositoryError(err, "touch league event")
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "auto-save failed", slog.Int("entries", len(entries)), slog.Any("error", err))
		return nil, err
	}

	if s.metrics != nil {
		for i := 0; i < result.Updated; i++ {
			s.metrics.IncMatchUpdates(metrics.SourceAutoSave)
		}
		if result.Skipped > 0 {
			s.metrics.AddAutoSaveSkipped(result.Skipped)
		}
	}
	s.recordRecomputes(updates)
	s.logger.InfoContext(ctx, "auto-save applied",
		slog.Int("event_id", result.LeagueEventID),
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped),
	)
	publishStandings(s.broadcaster, updates)
	return result, nil
}

// applyGroupResults locks one group, writes the entries whose match exists
// and recomputes the group if anything was written.
func (s *leagueEventService) applyGroupResults(ctx context.Context, exec repositories.SQLExecutor, eventID, groupID int, batch []autoSaveEntry) (*StandingsUpdate, int, error) {
	group, err := s.groupRepo.LockByID(ctx, exec, groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		s.logger.InfoContext(ctx, "auto-save entries skipped: unknown group",
			slog.Int("group_id", groupID), slog.Int("entries", len(batch)))
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, handleRepositoryError(err, "lock group")
	}
	if group.LeagueEventID != eventID {
		s.logger.InfoContext(ctx, "auto-save entries skipped: group belongs to another event",
			slog.Int("group_id", groupID), slog.Int("event_id", eventID),
			slog.Int("group_event_id", group.LeagueEventID), slog.Int("entries", len(batch)))
		return nil, 0, nil
	}

	applied := 0
	for _, entry := range batch {
		match, err := s.ledger.FindMatch(ctx, exec, groupID, entry.Player1, entry.Player2)
		if errors.Is(err, ErrMatchNotFound) {
			s.logger.InfoContext(ctx, "auto-save entry skipped: no such match",
				slog.Int("group_id", groupID), slog.String("match_key", entry.matchKey),
				slog.Int("player1_id", entry.Player1), slog.Int("player2_id", entry.Player2))
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		score1, score2, _ := match.Orient(entry.Player1, entry.Player2, entry.Score1, entry.Score2)
		if _, err := s.ledger.RecordScore(ctx, exec, match.ID, score1, score2); err != nil {
			return nil, 0, err
		}
		applied++
	}
	if applied == 0 {
		return nil, 0, nil
	}

	update, err := s.recomputeGroup(ctx, exec, eventID, groupID)
	if err != nil {
		return nil, 0, err
	}
	return &update, applied, nil
}

// resolveAutoSaveEvent loads the given event, or finds or creates today's
// event of the most recently created instance.
func (s *leagueEventService) resolveAutoSaveEvent(ctx context.Context, exec repositories.SQLExecutor, eventID *int) (*models.LeagueEvent, error) {
	if eventID != nil {
		event, err := s.eventRepo.GetByID(ctx, exec, *eventID)
		if err != nil {
			return nil, handleRepositoryError(err, "load league event")
		}
		return event, nil
	}

	instance, err := s.instanceRepo.GetMostRecent(ctx, exec)
	if err != nil {
		return nil, handleRepositoryError(err, "load most recent league instance")
	}
	today := models.TruncateToDate(s.now())
	event := &models.LeagueEvent{
		LeagueInstanceID: instance.ID,
		EventDate:        today,
		Name:             defaultEventName(today),
		GroupingMethod:   models.GroupingManual,
		Status:           models.EventStatusActive,
	}
	if err := s.eventRepo.FindOrCreate(ctx, exec, event); err != nil {
		return nil, handleRepositoryError(err, "find or create today's league event")
	}
	return event, nil
}

// GetEvent assembles the read view of an event. Standings of a group stay
// empty until its first recompute. All rows come from one read-only
// snapshot, so matches and standings never disagree.
func (s *leagueEventService) GetEvent(ctx context.Context, eventID int) (*EventView, error) {
	if eventID <= 0 {
		return nil, validationError("event id must be positive")
	}

	var (
		event     *models.LeagueEvent
		groups    []*models.Group
		members   []*models.GroupMember
		matches   []*models.GroupMatch
		standings []*models.GroupStanding
	)
	err := s.tx.WithinReadTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		if event, err = s.eventRepo.GetByID(ctx, exec, eventID); err != nil {
			return handleRepositoryError(err, "load league event")
		}
		if groups, err = s.groupRepo.ListByEvent(ctx, exec, eventID); err != nil {
			return handleRepositoryError(err, "list groups")
		}
		if members, err = s.groupRepo.ListMembersByEvent(ctx, exec, eventID); err != nil {
			return handleRepositoryError(err, "list group members")
		}
		if matches, err = s.matchRepo.ListByEvent(ctx, exec, eventID); err != nil {
			return handleRepositoryError(err, "list matches")
		}
		if standings, err = s.standingRepo.ListByEvent(ctx, exec, eventID); err != nil {
			return handleRepositoryError(err, "list standings")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.attachRegistrants(ctx, members)
	return buildEventView(event, groups, members, matches, standings), nil
}

// attachRegistrants fills member display data. Failure only costs names.
func (s *leagueEventService) attachRegistrants(ctx context.Context, members []*models.GroupMember) {
	if len(members) == 0 {
		return
	}
	ids := make([]int, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.PlayerID)
	}
	registrants, err := s.instanceRepo.ListRegistrantsByIDs(ctx, nil, ids)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load registrants for group members", slog.Any("error", err))
		return
	}
	byID := make(map[int]*models.Registrant, len(registrants))
	for _, r := range registrants {
		byID[r.ID] = r
	}
	for _, m := range members {
		m.Player = byID[m.PlayerID]
	}
}

func buildEventView(event *models.LeagueEvent, groups []*models.Group, members []*models.GroupMember, matches []*models.GroupMatch, standings []*models.GroupStanding) *EventView {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].GroupNumber < groups[j].GroupNumber })

	views := make([]*GroupView, 0, len(groups))
	byGroup := make(map[int]*GroupView, len(groups))
	for _, g := range groups {
		v := &GroupView{
			Group:     g,
			Members:   []*models.GroupMember{},
			Matches:   []*models.GroupMatch{},
			Standings: []*models.GroupStanding{},
		}
		views = append(views, v)
		byGroup[g.ID] = v
	}
	for _, m := range members {
		if v, ok := byGroup[m.GroupID]; ok {
			v.Members = append(v.Members, m)
		}
	}
	for _, m := range matches {
		if v, ok := byGroup[m.GroupID]; ok {
			v.Matches = append(v.Matches, m)
		}
	}
	for _, st := range standings {
		if v, ok := byGroup[st.GroupID]; ok {
			v.Standings = append(v.Standings, st)
		}
	}
	for _, v := range views {
		sort.SliceStable(v.Members, func(i, j int) bool { return v.Members[i].SeedOrder < v.Members[j].SeedOrder })
		sort.SliceStable(v.Matches, func(i, j int) bool { return v.Matches[i].MatchOrder < v.Matches[j].MatchOrder })
		sort.SliceStable(v.Standings, func(i, j int) bool { return v.Standings[i].Position < v.Standings[j].Position })
	}
	return &EventView{Event: event, Groups: views}
}

func (s *leagueEventService) RecomputeEvent(ctx context.Context, eventID int) ([]StandingsUpdate, error) {
	if eventID <= 0 {
		return nil, validationError("event id must be positive")
	}

	var updates []StandingsUpdate
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		updates = nil
		if _, err := s.eventRepo.GetByID(ctx, exec, eventID); err != nil {
			return handleRepositoryError(err, "load league event")
		}
		groups, err := s.groupRepo.ListByEvent(ctx, exec, eventID)
		if err != nil {
			return handleRepositoryError(err, "list groups")
		}
		sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })

		for _, g := range groups {
			if _, err := s.groupRepo.LockByID(ctx, exec, g.ID); err != nil {
				return handleRepositoryError(err, "lock group")
			}
			update, err := s.recomputeGroup(ctx, exec, eventID, g.ID)
			if err != nil {
				return err
			}
			updates = append(updates, update)
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "event recompute failed", slog.Int("event_id", eventID), slog.Any("error", err))
		return nil, err
	}

	s.recordRecomputes(updates)
	s.logger.InfoContext(ctx, "event standings recomputed", slog.Int("event_id", eventID), slog.Int("groups", len(updates)))
	publishStandings(s.broadcaster, updates)
	return updates, nil
}

// recomputeGroup пересчитывает таблицу группы внутри транзакции вызывающего
// и запоминает длительность; метрики пишет recordRecomputes после коммита.
func (s *leagueEventService) recomputeGroup(ctx context.Context, exec repositories.SQLExecutor, eventID, groupID int) (StandingsUpdate, error) {
	start := time.Now()
	standings, err := s.standings.RecomputeGroup(ctx, exec, groupID)
	if err != nil {
		return StandingsUpdate{}, err
	}
	return StandingsUpdate{
		LeagueEventID: eventID,
		GroupID:       groupID,
		Standings:     standings,
		elapsed:       time.Since(start),
	}, nil
}

// recordRecomputes counts committed recomputes only; rolled back and
// retried attempts never reach it.
func (s *leagueEventService) recordRecomputes(updates []StandingsUpdate) {
	if s.metrics == nil {
		return
	}
	for _, u := range updates {
		s.metrics.IncStandingsRecomputes()
		s.metrics.ObserveRecomputeDuration(u.elapsed.Seconds())
	}
}
