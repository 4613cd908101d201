package planchange

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/plan"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SimulatorSuite struct {
	suite.Suite
	tokyo     *time.Location
	simulator *Simulator
	catalog   *plan.Catalog
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorSuite))
}

func (s *SimulatorSuite) SetupTest() {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	s.Require().NoError(err)
	s.tokyo = tokyo
	s.simulator = NewSimulator(Config{Location: tokyo})
	s.catalog = testCatalog(s.T())
}

func (s *SimulatorSuite) simulate(current *plan.Plan, newPlanID string, effective types.OptionalDate, policy PolicyInput, now string) (*Simulation, error) {
	return s.simulator.Simulate(Request{
		CurrentPlan:   current,
		NewPlanID:     newPlanID,
		EffectiveDate: effective,
		Policy:        policy,
	}, s.catalog, junePeriod(), jstNow(now))
}

func (s *SimulatorSuite) TestCycleAlignedUpgrade() {
	sim, err := s.simulate(ahamoPlan(), "ahamo_large", types.NoDate(), PolicyInput{}, "2024-06-10")
	s.Require().NoError(err)

	s.Equal("2024-07-01", sim.EffectiveDate.String())
	s.Equal(int64(2970), sim.CurrentMonthlyFee)
	s.Equal(int64(4950), sim.NewMonthlyFee)
	s.Equal(int64(4950), sim.FirstMonthBilling)
	s.Equal(int64(1980), sim.PriceDifference)
	s.Equal(int64(1980), sim.MonthlyFeeDifference)
	s.Equal(types.ChangeTimingCycleAligned, sim.Timing)
	s.Equal(types.ChangeDirectionUpgrade, sim.Direction)
	s.Equal([]string{
		"Your plan type changes from ahamo to ahamo_large. Features added: 80GB data add-on.",
	}, sim.Notes)
}

func (s *SimulatorSuite) TestSameTypeCycleAlignedHasNoNotes() {
	sim, err := s.simulate(ahamoLargePlan(), "ahamo_large_lite", types.NoDate(), PolicyInput{}, "2024-06-10")
	s.Require().NoError(err)
	s.Equal(types.ChangeTimingCycleAligned, sim.Timing)
	s.NotNil(sim.Notes)
	s.Empty(sim.Notes)
}

func (s *SimulatorSuite) TestMidCycleUpgrade() {
	effective := types.SomeDate(types.MustParseDate("2024-06-16"))
	sim, err := s.simulate(ahamoPlan(), "ahamo_large", effective, PolicyInput{}, "2024-06-10")
	s.Require().NoError(err)

	s.Equal("2024-06-16", sim.EffectiveDate.String())
	s.Equal(int64(990), sim.PriceDifference)
	s.Equal(int64(3960), sim.FirstMonthBilling)
	s.Equal(int64(1980), sim.MonthlyFeeDifference)
	s.Equal([]string{
		"The 100GB allowance of the new plan is available from 2024-06-16 and does not apply to usage before that date.",
		"Your plan type changes from ahamo to ahamo_large. Features added: 80GB data add-on.",
	}, sim.Notes)
}

func (s *SimulatorSuite) TestMidCycleDowngrade() {
	effective := types.SomeDate(types.MustParseDate("2024-06-16"))
	sim, err := s.simulate(ahamoLargePlan(), "ahamo", effective, PolicyInput{}, "2024-06-10")
	s.Require().NoError(err)

	s.Less(sim.MonthlyFeeDifference, int64(0))
	s.Equal(int64(-990), sim.PriceDifference)
	s.Equal(int64(3960), sim.FirstMonthBilling)
	s.Equal(types.ChangeDirectionDowngrade, sim.Direction)
	s.Contains(sim.Notes,
		"Unused data from your current 100GB allowance will be forfeited when the change takes effect on 2024-06-16.")
}

func (s *SimulatorSuite) TestCrossTypeFlagNotes() {
	sim, err := s.simulate(ahamoPlan(), "ahamo_large_lite", types.NoDate(), PolicyInput{}, "2024-06-10")
	s.Require().NoError(err)
	s.Equal([]string{
		"Your plan type changes from ahamo to ahamo_large. Features removed: 5 minute domestic calls.",
		"5G service is not included in the new plan.",
		"International roaming is not included in the new plan.",
	}, sim.Notes)

	// reverse direction lists the flags as gained, after the upgrade note
	effective := types.SomeDate(types.MustParseDate("2024-06-20"))
	sim, err = s.simulate(ahamoLitePlan(), "ahamo", effective, PolicyInput{}, "2024-06-10")
	s.Require().NoError(err)
	s.Equal([]string{
		"The 20GB allowance of the new plan is available from 2024-06-20 and does not apply to usage before that date.",
		"Your plan type changes from ahamo_large to ahamo. Features added: 5 minute domestic calls.",
		"5G service becomes available with the new plan.",
		"International roaming becomes available with the new plan.",
	}, sim.Notes)
}

func (s *SimulatorSuite) TestCrossTypeWithSameFlagsNotesFeatureDelta() {
	sim, err := s.simulate(ahamoLargePlan(), "ahamo", types.NoDate(), PolicyInput{}, "2024-06-10")
	s.Require().NoError(err)
	s.Equal([]string{
		"Your plan type changes from ahamo_large to ahamo. Features removed: 80GB data add-on.",
	}, sim.Notes)

	// identical feature lists still get the type change note
	same := ahamoPlan()
	same.PlanID = "ahamo_large_same"
	same.PlanType = types.PlanTypeAhamoLarge
	same.MonthlyFee = 3980
	s.catalog = testCatalog(s.T(), ahamoPlan(), same)
	sim, err = s.simulate(ahamoPlan(), "ahamo_large_same", types.NoDate(), PolicyInput{}, "2024-06-10")
	s.Require().NoError(err)
	s.Equal([]string{
		"Your plan type changes from ahamo to ahamo_large. The feature list is unchanged.",
	}, sim.Notes)
}

func (s *SimulatorSuite) TestNoOpChange() {
	_, err := s.simulate(ahamoPlan(), "ahamo", types.NoDate(), PolicyInput{}, "2024-06-10")
	s.Require().Error(err)
	s.True(ierr.IsNoOpChange(err))
}

func (s *SimulatorSuite) TestPlanNotFound() {
	_, err := s.simulate(ahamoPlan(), "ahamo_mini", types.NoDate(), PolicyInput{}, "2024-06-10")
	s.Require().Error(err)
	s.True(ierr.IsPlanNotFound(err))
}

func (s *SimulatorSuite) TestPastEffectiveDate() {
	effective := types.SomeDate(types.MustParseDate("2024-06-09"))
	_, err := s.simulate(ahamoPlan(), "ahamo_large", effective, PolicyInput{}, "2024-06-10")
	s.Require().Error(err)
	s.True(ierr.IsInvalidDate(err))
}

func (s *SimulatorSuite) TestErrorPrecedence() {
	past := types.SomeDate(types.MustParseDate("2024-06-01"))

	// unknown target wins over a past date
	_, err := s.simulate(ahamoPlan(), "ahamo_mini", past, PolicyInput{}, "2024-06-10")
	s.True(ierr.IsPlanNotFound(err))

	// no-op wins over a past date
	_, err = s.simulate(ahamoPlan(), "ahamo", past, PolicyInput{}, "2024-06-10")
	s.True(ierr.IsNoOpChange(err))

	// an invalid date wins over a policy block
	_, err = s.simulate(ahamoPlan(), "ahamo_large", past, PolicyInput{TenureLocked: true}, "2024-06-10")
	s.True(ierr.IsInvalidDate(err))
}

func (s *SimulatorSuite) TestTodayUsesConfiguredZone() {
	// 16:00 UTC on June 30th is already July 1st in Tokyo
	now := time.Date(2024, 6, 30, 16, 0, 0, 0, time.UTC)
	req := Request{
		CurrentPlan:   ahamoPlan(),
		NewPlanID:     "ahamo_large",
		EffectiveDate: types.SomeDate(types.MustParseDate("2024-06-30")),
	}

	_, err := s.simulator.Simulate(req, s.catalog, junePeriod(), now)
	s.Require().Error(err)
	s.True(ierr.IsInvalidDate(err))

	utc := NewSimulator(Config{})
	sim, err := utc.Simulate(req, s.catalog, junePeriod(), now)
	s.Require().NoError(err)
	s.Equal(types.ChangeTimingMidCycle, sim.Timing)
}

func (s *SimulatorSuite) TestTenureLock() {
	tests := []struct {
		name      string
		policy    PolicyInput
		effective types.OptionalDate
		blocked   bool
	}{
		{
			name:    "locked without end date",
			policy:  PolicyInput{TenureLocked: true},
			blocked: true,
		},
		{
			name:      "change effective before lock ends",
			policy:    PolicyInput{TenureLocked: true, LockedUntil: types.SomeDate(types.MustParseDate("2024-06-20"))},
			effective: types.SomeDate(types.MustParseDate("2024-06-16")),
			blocked:   true,
		},
		{
			name:    "lock ends after period end",
			policy:  PolicyInput{TenureLocked: true, LockedUntil: types.SomeDate(types.MustParseDate("2024-08-01"))},
			blocked: true,
		},
		{
			name:    "lock ends on effective date",
			policy:  PolicyInput{TenureLocked: true, LockedUntil: types.SomeDate(types.MustParseDate("2024-07-01"))},
			blocked: false,
		},
		{
			name:    "lock end date without lock flag",
			policy:  PolicyInput{LockedUntil: types.SomeDate(types.MustParseDate("2024-08-01"))},
			blocked: false,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.simulate(ahamoPlan(), "ahamo_large", tt.effective, tt.policy, "2024-06-10")
			if !tt.blocked {
				s.NoError(err)
				return
			}
			s.Require().Error(err)
			s.True(ierr.IsPolicyViolation(err))
			s.Contains(ierr.DisplayMessage(err), string(types.PolicyRuleMinimumTenureLock))
			s.Equal(string(types.PolicyRuleMinimumTenureLock), ierr.SafeDetails(err)["rule"])
		})
	}
}

func (s *SimulatorSuite) TestMidCycleDowngradeBelowCarryOver() {
	effective := types.SomeDate(types.MustParseDate("2024-06-16"))
	policy := PolicyInput{CarryOverGB: decimal.NewFromInt(15)}

	_, err := s.simulate(ahamoPlan(), "ahamo_large_lite", effective, policy, "2024-06-10")
	s.Require().Error(err)
	s.True(ierr.IsPolicyViolation(err))
	s.Equal(string(types.PolicyRuleMidCycleDowngradeCarryOver), ierr.SafeDetails(err)["rule"])

	// deferred to the next cycle the downgrade is fine
	sim, err := s.simulate(ahamoPlan(), "ahamo_large_lite", types.NoDate(), policy, "2024-06-10")
	s.Require().NoError(err)
	s.Equal(types.ChangeTimingCycleAligned, sim.Timing)

	// carry-over within the new allowance is fine
	_, err = s.simulate(ahamoPlan(), "ahamo_large_lite", effective, PolicyInput{CarryOverGB: decimal.NewFromInt(10)}, "2024-06-10")
	s.Require().NoError(err)

	// and the rule can be switched off
	permissive := NewSimulator(Config{Location: s.tokyo, Policy: PolicyConfig{AllowMidCycleDowngradeBelowCarryOver: true}})
	_, err = permissive.Simulate(Request{
		CurrentPlan:   ahamoPlan(),
		NewPlanID:     "ahamo_large_lite",
		EffectiveDate: effective,
		Policy:        policy,
	}, s.catalog, junePeriod(), jstNow("2024-06-10"))
	s.Require().NoError(err)
}

func (s *SimulatorSuite) TestInvalidBillingPeriod() {
	period := contract.BillingPeriod{
		Start: types.MustParseDate("2024-07-01"),
		End:   types.MustParseDate("2024-06-01"),
	}
	_, err := s.simulator.Simulate(Request{CurrentPlan: ahamoPlan(), NewPlanID: "ahamo_large"}, s.catalog, period, jstNow("2024-06-10"))
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SimulatorSuite) TestMissingInputs() {
	_, err := s.simulator.Simulate(Request{NewPlanID: "ahamo_large"}, s.catalog, junePeriod(), jstNow("2024-06-10"))
	s.True(ierr.IsValidation(err))

	_, err = s.simulator.Simulate(Request{CurrentPlan: ahamoPlan(), NewPlanID: "ahamo_large"}, nil, junePeriod(), jstNow("2024-06-10"))
	s.Require().Error(err)
}

// Properties that hold for every successful simulation.
func (s *SimulatorSuite) TestPropertiesAcrossPlansAndDates() {
	plans := []*plan.Plan{ahamoPlan(), ahamoLargePlan(), ahamoLitePlan()}
	today := types.MustParseDate("2024-06-10")

	requests := []types.OptionalDate{types.NoDate()}
	for d := today; d.Before(types.MustParseDate("2024-07-05")); d = d.AddDays(1) {
		requests = append(requests, types.SomeDate(d))
	}

	for _, current := range plans {
		for _, target := range plans {
			for _, effective := range requests {
				sim, err := s.simulate(current, target.PlanID, effective, PolicyInput{}, today.String())
				if current.PlanID == target.PlanID {
					s.True(ierr.IsNoOpChange(err))
					continue
				}
				s.Require().NoError(err)

				s.Equal(sim.NewMonthlyFee-sim.CurrentMonthlyFee, sim.MonthlyFeeDifference)
				s.GreaterOrEqual(sim.FirstMonthBilling, int64(0))
				s.False(sim.EffectiveDate.Before(today))
				s.NotNil(sim.Notes)
				s.Len(sim.Notes, len(uniqueStrings(sim.Notes)))

				again, err := s.simulate(current, target.PlanID, effective, PolicyInput{}, today.String())
				s.Require().NoError(err)
				s.Equal(sim, again)
			}
		}
	}
}

func uniqueStrings(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, v := range in {
		out[v] = struct{}{}
	}
	return out
}

func TestSimulation_JSON(t *testing.T) {
	sim, err := NewSimulator(Config{}).Simulate(Request{
		CurrentPlan: ahamoPlan(),
		NewPlanID:   "ahamo_large",
	}, testCatalog(t), junePeriod(), time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out, err := json.Marshal(sim)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &fields))

	for _, key := range []string{
		"currentPlan", "newPlan", "currentMonthlyFee", "newMonthlyFee", "priceDifference",
		"monthlyFeeDifference", "firstMonthBilling", "effectiveDate", "notes",
	} {
		assert.Contains(t, fields, key)
	}
	assert.Len(t, fields, 9)
	assert.JSONEq(t, `["Your plan type changes from ahamo to ahamo_large. Features added: 80GB data add-on."]`, string(fields["notes"]))
	assert.JSONEq(t, `"2024-07-01"`, string(fields["effectiveDate"]))

	var current map[string]any
	require.NoError(t, json.Unmarshal(fields["currentPlan"], &current))
	assert.Equal(t, "ahamo", current["planId"])
	assert.Equal(t, true, current["is5GSupported"])
}
