package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/models"
)

// EntityKey is a client-side identifier that may arrive as a JSON string or number.
type EntityKey string

func (k *EntityKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*k = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = EntityKey(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("key must be a string or a number: %w", err)
	}
	*k = EntityKey(n.String())
	return nil
}

// PlayerRef identifies a registrant inside a group spec. Only ID is used;
// the other fields are what the organizer UI sends along.
type PlayerRef struct {
	ID         int      `json:"id"`
	Name       string   `json:"name,omitempty"`
	SkillLevel *float64 `json:"skill_level,omitempty"`
}

// UnmarshalJSON игнорирует лишние поля регистранта (email, рейтинг и т.п.),
// даже когда тело запроса декодируется строго.
func (p *PlayerRef) UnmarshalJSON(data []byte) error {
	type plain PlayerRef
	var raw struct {
		plain
		SkillRating *float64 `json:"skill_rating"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("player must be an object with an id: %w", err)
	}
	*p = PlayerRef(raw.plain)
	if p.SkillLevel == nil {
		p.SkillLevel = raw.SkillRating
	}
	return nil
}

// GroupSpec is one already-partitioned group. Seeding order is the order
// of Players.
type GroupSpec struct {
	Key     EntityKey   `json:"id"`
	Name    string      `json:"name"`
	Players []PlayerRef `json:"players"`
}

// ComposedGroup is a validated group with its full round-robin schedule,
// ready to be persisted.
type ComposedGroup struct {
	Key       EntityKey
	Number    int
	Name      string
	PlayerIDs []int
	Schedule  []*brackets.ScheduledMatch
}

// PairIndex returns the scheduled match for the two players in either order.
func (g *ComposedGroup) PairIndex() map[models.PairKey]*brackets.ScheduledMatch {
	idx := make(map[models.PairKey]*brackets.ScheduledMatch, len(g.Schedule))
	for _, m := range g.Schedule {
		idx[models.NewPairKey(m.Player1ID, m.Player2ID)] = m
	}
	return idx
}

type GroupComposer interface {
	ComposeGroups(ctx context.Context, specs []GroupSpec, method models.GroupingMethod) ([]*ComposedGroup, error)
}

type groupComposer struct {
	generator brackets.ScheduleGenerator
	logger    *slog.Logger
}

func NewGroupComposer(generator brackets.ScheduleGenerator, logger *slog.Logger) GroupComposer {
	if generator == nil {
		generator = brackets.NewRoundRobinGenerator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &groupComposer{generator: generator, logger: logger}
}

// ComposeGroups validates the partition and materializes every pairing of
// each group. Groups are numbered 1..n in the given order. A player may
// appear in at most one group of the event.
func (c *groupComposer) ComposeGroups(ctx context.Context, specs []GroupSpec, method models.GroupingMethod) ([]*ComposedGroup, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: at least one group is required", ErrGroupSpecInvalid)
	}
	if !method.IsValid() {
		return nil, validationError("unknown grouping method %q", method)
	}

	seenKeys := make(map[EntityKey]struct{}, len(specs))
	groupOf := make(map[int]int)
	composed := make([]*ComposedGroup, 0, len(specs))

	for i, spec := range specs {
		number := i + 1
		key := spec.Key
		if key == "" {
			key = EntityKey(fmt.Sprintf("%d", number))
		}
		if _, dup := seenKeys[key]; dup {
			return nil, fmt.Errorf("%w: group key %q is used twice", ErrGroupSpecInvalid, key)
		}
		seenKeys[key] = struct{}{}

		name := strings.TrimSpace(spec.Name)
		if name == "" {
			name = fmt.Sprintf("Group %d", number)
		}

		playerIDs := make([]int, 0, len(spec.Players))
		for _, p := range spec.Players {
			if p.ID <= 0 {
				return nil, fmt.Errorf("%w: group %q has a player without a valid id", ErrGroupSpecInvalid, key)
			}
			if other, dup := groupOf[p.ID]; dup {
				if other == number {
					return nil, fmt.Errorf("%w: player %d listed twice in group %q", ErrDuplicatePlayer, p.ID, key)
				}
				return nil, fmt.Errorf("%w: player %d is in groups %d and %d", ErrDuplicatePlayer, p.ID, other, number)
			}
			groupOf[p.ID] = number
			playerIDs = append(playerIDs, p.ID)
		}

		schedule, err := c.generator.GenerateSchedule(ctx, brackets.GenerateScheduleParams{
			GroupNumber: number,
			PlayerIDs:   playerIDs,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: group %q: %v", ErrGroupSpecInvalid, key, err)
		}

		composed = append(composed, &ComposedGroup{
			Key:       key,
			Number:    number,
			Name:      name,
			PlayerIDs: playerIDs,
			Schedule:  schedule,
		})
	}

	c.logger.DebugContext(ctx, "groups composed",
		slog.Int("groups", len(composed)),
		slog.Int("players", len(groupOf)),
		slog.String("grouping_method", string(method)),
		slog.String("generator", c.generator.GetName()),
	)
	return composed, nil
}
