package character_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-compendium/internal/clients/external"
	externalmock "github.com/KirkDiggler/rpg-compendium/internal/clients/external/mock"
	"github.com/KirkDiggler/rpg-compendium/internal/errors"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-compendium/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockExternal *externalmock.MockClient
	orchestrator character.Service
	ctx          context.Context
	testRace     *external.RaceData
	testClass    *external.ClassData
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockExternal = externalmock.NewMockClient(s.ctrl)
	s.ctx = context.Background()

	var err error
	s.orchestrator, err = character.NewOrchestrator(&character.Config{
		ExternalClient: s.mockExternal,
	})
	s.Require().NoError(err)

	s.testRace = testutils.CreateTestRace()
	s.testClass = testutils.CreateTestClass()
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) TestNewOrchestratorRequiresClient() {
	_, err := character.NewOrchestrator(&character.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = character.NewOrchestrator(nil)
	s.Require().Error(err)
}

func (s *OrchestratorTestSuite) TestListOptions() {
	races := []*external.Reference{{ID: "dwarf", Name: "Dwarf"}, {ID: "elf", Name: "Elf"}}
	classes := []*external.Reference{{ID: "fighter", Name: "Fighter"}}

	s.mockExternal.EXPECT().ListRaces(gomock.Any()).Return(races, nil)
	s.mockExternal.EXPECT().ListClasses(gomock.Any()).Return(classes, nil)

	out, err := s.orchestrator.ListOptions(s.ctx, &character.ListOptionsInput{})
	s.Require().NoError(err)
	s.Equal(races, out.Races)
	s.Equal(classes, out.Classes)
}

func (s *OrchestratorTestSuite) TestListOptionsRaceFailure() {
	s.mockExternal.EXPECT().ListRaces(gomock.Any()).Return(nil, errors.Unavailable("connection refused"))
	s.mockExternal.EXPECT().ListClasses(gomock.Any()).Return(nil, nil).AnyTimes()

	out, err := s.orchestrator.ListOptions(s.ctx, &character.ListOptionsInput{})
	s.Require().Error(err)
	s.Nil(out)
	s.True(errors.IsUnavailable(err))
	s.Equal("Failed to load races", errors.GetMessage(err))
}

func (s *OrchestratorTestSuite) TestCreateCharacter() {
	s.mockExternal.EXPECT().GetRaceData(gomock.Any(), "dwarf").Return(s.testRace, nil)
	s.mockExternal.EXPECT().GetClassData(gomock.Any(), "fighter").Return(s.testClass, nil)

	out, err := s.orchestrator.CreateCharacter(s.ctx, &character.CreateCharacterInput{
		Name:    "  Thorin ",
		RaceID:  "dwarf",
		ClassID: "fighter",
	})
	s.Require().NoError(err)
	s.Equal("Thorin", out.Character.Name)
	s.Same(s.testRace, out.Character.Race)
	s.Same(s.testClass, out.Character.Class)
}

func (s *OrchestratorTestSuite) TestCreateCharacterMissingFields() {
	testCases := []struct {
		name  string
		input *character.CreateCharacterInput
	}{
		{name: "missing name", input: &character.CreateCharacterInput{RaceID: "dwarf", ClassID: "fighter"}},
		{name: "blank name", input: &character.CreateCharacterInput{Name: "   ", RaceID: "dwarf", ClassID: "fighter"}},
		{name: "missing race", input: &character.CreateCharacterInput{Name: "Thorin", ClassID: "fighter"}},
		{name: "missing class", input: &character.CreateCharacterInput{Name: "Thorin", RaceID: "dwarf"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := s.orchestrator.CreateCharacter(s.ctx, tc.input)
			s.Require().Error(err)
			s.Nil(out)
			s.True(errors.IsInvalidArgument(err))
			s.Equal("please fill in all fields", errors.GetMessage(err))
		})
	}
}

func (s *OrchestratorTestSuite) TestCreateCharacterNilInput() {
	out, err := s.orchestrator.CreateCharacter(s.ctx, nil)
	s.Require().Error(err)
	s.Nil(out)
}

func (s *OrchestratorTestSuite) TestCreateCharacterClassFailure() {
	s.mockExternal.EXPECT().GetRaceData(gomock.Any(), "dwarf").Return(s.testRace, nil).AnyTimes()
	s.mockExternal.EXPECT().GetClassData(gomock.Any(), "fighter").
		Return(nil, errors.Unavailable("D&D 5e API call failed"))

	out, err := s.orchestrator.CreateCharacter(s.ctx, &character.CreateCharacterInput{
		Name:    "Thorin",
		RaceID:  "dwarf",
		ClassID: "fighter",
	})
	s.Require().Error(err)
	s.Nil(out)
	s.True(errors.IsUnavailable(err))
}

func (s *OrchestratorTestSuite) TestCreateCharacterRaceNotFound() {
	s.mockExternal.EXPECT().GetRaceData(gomock.Any(), "kender").Return(nil, errors.NotFound("race kender not found"))
	s.mockExternal.EXPECT().GetClassData(gomock.Any(), "fighter").Return(s.testClass, nil).AnyTimes()

	out, err := s.orchestrator.CreateCharacter(s.ctx, &character.CreateCharacterInput{
		Name:    "Tas",
		RaceID:  "kender",
		ClassID: "fighter",
	})
	s.Require().Error(err)
	s.Nil(out)
	s.True(errors.IsNotFound(err))
}
