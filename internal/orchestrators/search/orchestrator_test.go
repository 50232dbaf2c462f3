package search_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	apimock "github.com/KirkDiggler/rpg-compendium/internal/clients/api/mock"
	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/errors"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/search"
	"github.com/KirkDiggler/rpg-compendium/internal/pkg/idgen"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockClient   *apimock.MockClient
	orchestrator search.Service
	ctx          context.Context
	spells       *compendium.Feature
	monsters     *compendium.Feature
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = apimock.NewMockClient(s.ctrl)
	s.ctx = context.Background()
	s.spells = compendium.SpellsFeature()
	s.monsters = compendium.MonstersFeature()

	var err error
	s.orchestrator, err = search.NewOrchestrator(&search.Config{
		Client:      s.mockClient,
		IDGenerator: idgen.NewSequential("test"),
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func spell(id, name string, level int) *compendium.DetailRecord {
	return &compendium.DetailRecord{
		ID:   id,
		Name: name,
		Fields: map[string]any{
			"index": id,
			"name":  name,
			"level": float64(level),
		},
	}
}

func monster(id, name string, cr float64) *compendium.DetailRecord {
	return &compendium.DetailRecord{
		ID:   id,
		Name: name,
		Fields: map[string]any{
			"index":            id,
			"name":             name,
			"challenge_rating": cr,
		},
	}
}

func (s *OrchestratorTestSuite) TestNewOrchestrator_RequiresDependencies() {
	_, err := search.NewOrchestrator(&search.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = search.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestSearch_OnlyTextMatchesAreFetched() {
	s.mockClient.EXPECT().
		ListIndex(gomock.Any(), compendium.ResourceSpells).
		Return([]*compendium.IndexEntry{
			{ID: "fireball", Name: "Fireball"},
			{ID: "frost-bite", Name: "Frostbite"},
		}, nil)
	fireball := spell("fireball", "Fireball", 3)
	s.mockClient.EXPECT().
		GetRecord(gomock.Any(), compendium.ResourceSpells, "fireball").
		Return(fireball, nil)

	output, err := s.orchestrator.Search(s.ctx, &search.SearchInput{
		Feature: s.spells,
		Query:   compendium.Query{Text: "fire"},
	})

	s.Require().NoError(err)
	s.Equal("test_1", output.InvocationID)
	s.Require().True(output.Result.IsSuccess())
	s.Equal([]*compendium.DetailRecord{fireball}, output.Result.Records)
}

func (s *OrchestratorTestSuite) TestSearch_NoMatchSkipsDetailFetch() {
	s.mockClient.EXPECT().
		ListIndex(gomock.Any(), compendium.ResourceSpells).
		Return([]*compendium.IndexEntry{{ID: "fireball", Name: "Fireball"}}, nil).
		Times(1)

	output, err := s.orchestrator.Search(s.ctx, &search.SearchInput{
		Feature: s.spells,
		Query:   compendium.Query{Text: "zzz"},
	})

	s.Require().NoError(err)
	s.True(output.Result.IsEmpty())
	s.Equal(compendium.EmptyReasonNoMatch, output.Result.Reason)
}

func (s *OrchestratorTestSuite) TestSearch_TextIsNormalized() {
	s.mockClient.EXPECT().
		ListIndex(gomock.Any(), compendium.ResourceSpells).
		Return([]*compendium.IndexEntry{
			{ID: "fireball", Name: "Fireball"},
			{ID: "fire-bolt", Name: "Fire Bolt"},
			{ID: "shield", Name: "Shield"},
		}, nil)
	s.mockClient.EXPECT().GetRecord(gomock.Any(), compendium.ResourceSpells, "fireball").Return(spell("fireball", "Fireball", 3), nil)
	s.mockClient.EXPECT().GetRecord(gomock.Any(), compendium.ResourceSpells, "fire-bolt").Return(spell("fire-bolt", "Fire Bolt", 0), nil)

	output, err := s.orchestrator.Search(s.ctx, &search.SearchInput{
		Feature: s.spells,
		Query:   compendium.Query{Text: "  FIRE  "},
	})

	s.Require().NoError(err)
	s.Require().True(output.Result.IsSuccess())
	s.Require().Len(output.Result.Records, 2)
	s.Equal("fireball", output.Result.Records[0].ID)
	s.Equal("fire-bolt", output.Result.Records[1].ID)
}

func (s *OrchestratorTestSuite) TestSearch_ResultsContainQueryText() {
	index := []*compendium.IndexEntry{
		{ID: "acid-arrow", Name: "Acid Arrow"},
		{ID: "acid-splash", Name: "Acid Splash"},
		{ID: "aid", Name: "Aid"},
		{ID: "alarm", Name: "Alarm"},
		{ID: "animal-friendship", Name: "Animal Friendship"},
	}
	byID := make(map[string]*compendium.IndexEntry, len(index))
	for _, e := range index {
		byID[e.ID] = e
	}

	s.mockClient.EXPECT().ListIndex(gomock.Any(), compendium.ResourceSpells).Return(index, nil).AnyTimes()
	s.mockClient.EXPECT().
		GetRecord(gomock.Any(), compendium.ResourceSpells, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ compendium.Resource, id string) (*compendium.DetailRecord, error) {
			return spell(id, byID[id].Name, 1), nil
		}).
		AnyTimes()

	for _, text := range []string{"a", "Acid", "ARM", "i", "splash"} {
		output, err := s.orchestrator.Search(s.ctx, &search.SearchInput{
			Feature: s.spells,
			Query:   compendium.Query{Text: text},
		})
		s.Require().NoError(err)
		s.Require().True(output.Result.IsSuccess(), text)
		for _, record := range output.Result.Records {
			s.Contains(strings.ToLower(record.Name), strings.ToLower(text))
		}
	}
}

func (s *OrchestratorTestSuite) TestSearch_FanoutNeverExceedsCap() {
	index := make([]*compendium.IndexEntry, 40)
	for i := range index {
		index[i] = &compendium.IndexEntry{ID: fmt.Sprintf("goblin-%02d", i), Name: fmt.Sprintf("Goblin %d", i)}
	}
	s.mockClient.EXPECT().ListIndex(gomock.Any(), compendium.ResourceMonsters).Return(index, nil)

	var calls, inFlight, peak atomic.Int32
	s.mockClient.EXPECT().
		GetRecord(gomock.Any(), compendium.ResourceMonsters, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ compendium.Resource, id string) (*compendium.DetailRecord, error) {
			calls.Add(1)
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			return monster(id, id, 0.25), nil
		}).
		Times(compendium.DefaultMonsterCap)

	output, err := s.orchestrator.Search(s.ctx, &search.SearchInput{
		Feature: s.monsters,
		Query:   compendium.Query{Text: "goblin"},
	})

	s.Require().NoError(err)
	s.Require().True(output.Result.IsSuccess())
	s.Len(output.Result.Records, compendium.DefaultMonsterCap)
	s.Equal(int32(compendium.DefaultMonsterCap), calls.Load())
	s.LessOrEqual(peak.Load(), int32(compendium.DefaultMonsterCap))

	// Records come back in index order regardless of completion order.
	for i, record := range output.Result.Records {
		s.Equal(index[i].ID, record.ID)
	}
}

func (s *OrchestratorTestSuite) TestSearch_DetailFailureFailsWholeBatch() {
	s.mockClient.EXPECT().
		ListIndex(gomock.Any(), compendium.ResourceSpells).
		Return([]*compendium.IndexEntry{
			{ID: "fireball", Name: "Fireball"},
			{ID: "fire-bolt", Name: "Fire Bolt"},
			{ID: "fire-shield", Name: "Fire Shield"},
		}, nil)
	s.mockClient.EXPECT().
		GetRecord(gomock.Any(), compendium.ResourceSpells, "fireball").
		Return(nil, errors.Unavailable("connection refused"))
	s.mockClient.EXPECT().
		GetRecord(gomock.Any(), compendium.ResourceSpells, gomock.Not("fireball")).
		DoAndReturn(func(_ context.Context, _ compendium.Resource, id string) (*compendium.DetailRecord, error) {
			return spell(id, id, 1), nil
		}).
		AnyTimes()

	output, err := s.orchestrator.Search(s.ctx, &search.SearchInput{
		Feature: s.spells,
		Query:   compendium.Query{Text: "fire"},
	})

	s.Require().NoError(err)
	s.Require().True(output.Result.IsFailure())
	s.Equal(compendium.ErrorKindNetwork, output.Result.Kind)
	s.Nil(output.Result.Records)
	s.Error(output.Result.Cause)
}

func (s *OrchestratorTestSuite) TestSearch_IndexFailure() {
	s.mockClient.EXPECT().
		ListIndex(gomock.Any(), compendium.ResourceMonsters).
		Return(nil, errors.Unavailable("bad gateway"))

	output, err := s.orchestrator.Search(s.ctx, &search.SearchInput{
		Feature: s.monsters,
		Query:   compendium.Query{Text: "dragon"},
	})

	s.Require().NoError(err)
	s.True(output.Result.IsFailure())
	s.Equal(compendium.ErrorKindNetwork, output.Result.Kind)
}

func (s *OrchestratorTestSuite) TestSearch_CanceledInvocation() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	s.mockClient.EXPECT().
		ListIndex(gomock.Any(), compendium.ResourceSpells).
		Return(nil, errors.Wrap(context.Canceled, "request abandoned"))

	output, err := s.orchestrator.Search(ctx, &search.SearchInput{Feature: s.spells})

	s.Require().NoError(err)
	s.True(output.Result.IsFailure())
	s.Equal(compendium.ErrorKindCanceled, output.Result.Kind)
}

func (s *OrchestratorTestSuite) TestSearch_StructuredFilter() {
	index := []*compendium.IndexEntry{
		{ID: "cure-wounds", Name: "Cure Wounds"},
		{ID: "mass-cure-wounds", Name: "Mass Cure Wounds"},
	}
	records := map[string]*compendium.DetailRecord{
		"cure-wounds":      spell("cure-wounds", "Cure Wounds", 1),
		"mass-cure-wounds": spell("mass-cure-wounds", "Mass Cure Wounds", 5),
	}

	testCases := []struct {
		name     string
		raw      string
		expected []string
		reason   compendium.EmptyReason
	}{
		{name: "keeps exact level", raw: "5", expected: []string{"mass-cure-wounds"}},
		{name: "no filter keeps all", raw: "", expected: []string{"cure-wounds", "mass-cure-wounds"}},
		{name: "filter removes all", raw: "9", reason: compendium.EmptyReasonFiltered},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockClient.EXPECT().ListIndex(gomock.Any(), compendium.ResourceSpells).Return(index, nil)
			s.mockClient.EXPECT().
				GetRecord(gomock.Any(), compendium.ResourceSpells, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ compendium.Resource, id string) (*compendium.DetailRecord, error) {
					return records[id], nil
				}).
				Times(2)

			filter, err := s.spells.ParseFilter(tc.raw)
			s.Require().NoError(err)

			output, err := s.orchestrator.Search(s.ctx, &search.SearchInput{
				Feature: s.spells,
				Query:   compendium.Query{Text: "cure", Filter: filter},
			})
			s.Require().NoError(err)

			if tc.expected == nil {
				s.True(output.Result.IsEmpty())
				s.Equal(tc.reason, output.Result.Reason)
				return
			}

			s.Require().True(output.Result.IsSuccess())
			ids := make([]string, len(output.Result.Records))
			for i, record := range output.Result.Records {
				ids[i] = record.ID
				if filter != nil {
					s.Equal(filter.Value, record.Fields[filter.Field])
				}
			}
			s.Equal(tc.expected, ids)
		})
	}
}

// A filter match that sits past the cap is never fetched, so it is not found.
func (s *OrchestratorTestSuite) TestSearch_TruncateBeforeFilterHidesLateMatches() {
	index := make([]*compendium.IndexEntry, compendium.DefaultMonsterCap+1)
	for i := range index {
		index[i] = &compendium.IndexEntry{ID: fmt.Sprintf("orc-%02d", i), Name: fmt.Sprintf("Orc %d", i)}
	}
	lateMatch := index[len(index)-1].ID

	s.mockClient.EXPECT().ListIndex(gomock.Any(), compendium.ResourceMonsters).Return(index, nil)
	s.mockClient.EXPECT().
		GetRecord(gomock.Any(), compendium.ResourceMonsters, gomock.Not(lateMatch)).
		DoAndReturn(func(_ context.Context, _ compendium.Resource, id string) (*compendium.DetailRecord, error) {
			return monster(id, id, 0.5), nil
		}).
		Times(compendium.DefaultMonsterCap)

	filter, err := s.monsters.ParseFilter("5")
	s.Require().NoError(err)

	output, err := s.orchestrator.Search(s.ctx, &search.SearchInput{
		Feature: s.monsters,
		Query:   compendium.Query{Text: "orc", Filter: filter},
	})

	s.Require().NoError(err)
	s.True(output.Result.IsEmpty())
	s.Equal(compendium.EmptyReasonFiltered, output.Result.Reason)
}

func (s *OrchestratorTestSuite) TestSearch_InvalidInput() {
	_, err := s.orchestrator.Search(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.Search(s.ctx, &search.SearchInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.Search(s.ctx, &search.SearchInput{Feature: &compendium.Feature{Name: "broken"}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestPreload_DropsFailedItems() {
	s.mockClient.EXPECT().GetRecord(gomock.Any(), compendium.ResourceSpells, "a").Return(spell("a", "A", 1), nil)
	s.mockClient.EXPECT().GetRecord(gomock.Any(), compendium.ResourceSpells, "b").Return(nil, errors.Unavailable("timeout"))
	s.mockClient.EXPECT().GetRecord(gomock.Any(), compendium.ResourceSpells, "c").Return(spell("c", "C", 2), nil)

	output, err := s.orchestrator.Preload(s.ctx, &search.PreloadInput{
		Feature: s.spells,
		IDs:     []string{"a", "b", "c"},
	})

	s.Require().NoError(err)
	s.Require().True(output.Result.IsSuccess())
	s.Require().Len(output.Result.Records, 2)
	s.Equal("a", output.Result.Records[0].ID)
	s.Equal("c", output.Result.Records[1].ID)
}

func (s *OrchestratorTestSuite) TestPreload_AllFailedIsEmpty() {
	s.mockClient.EXPECT().
		GetRecord(gomock.Any(), compendium.ResourceMonsters, gomock.Any()).
		Return(nil, errors.Unavailable("down")).
		Times(2)

	output, err := s.orchestrator.Preload(s.ctx, &search.PreloadInput{
		Feature: s.monsters,
		IDs:     []string{"dragon", "goblin"},
	})

	s.Require().NoError(err)
	s.True(output.Result.IsEmpty())
	s.Equal(compendium.EmptyReasonNoneLoaded, output.Result.Reason)
}

func (s *OrchestratorTestSuite) TestPreload_DefaultsToPopularIDs() {
	var mu sync.Mutex
	var requested []string
	s.mockClient.EXPECT().
		GetRecord(gomock.Any(), compendium.ResourceSpells, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ compendium.Resource, id string) (*compendium.DetailRecord, error) {
			mu.Lock()
			requested = append(requested, id)
			mu.Unlock()
			return spell(id, id, 1), nil
		}).
		Times(len(s.spells.PopularIDs))

	output, err := s.orchestrator.Preload(s.ctx, &search.PreloadInput{Feature: s.spells})

	s.Require().NoError(err)
	s.Require().True(output.Result.IsSuccess())
	s.ElementsMatch(s.spells.PopularIDs, requested)
	for i, record := range output.Result.Records {
		s.Equal(s.spells.PopularIDs[i], record.ID)
	}
}

func (s *OrchestratorTestSuite) TestPreload_NoIDsIsEmpty() {
	output, err := s.orchestrator.Preload(s.ctx, &search.PreloadInput{
		Feature: s.spells,
		IDs:     []string{},
	})

	s.Require().NoError(err)
	s.True(output.Result.IsEmpty())
}
