package service

import (
	"testing"
	"time"

	"github.com/ahamo-portal/portal/internal/api/dto"
	"github.com/ahamo-portal/portal/internal/domain/contract"
	"github.com/ahamo-portal/portal/internal/domain/planchange"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/testutil"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PlanChangeServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PlanChangeService
}

func TestPlanChangeService(t *testing.T) {
	suite.Run(t, new(PlanChangeServiceSuite))
}

func (s *PlanChangeServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewPlanChangeService(params, NewCatalogService(params))
}

func on(date string) types.OptionalDate {
	return types.SomeDate(types.MustParseDate(date))
}

func (s *PlanChangeServiceSuite) TestSimulateForSubscriber_CycleAligned() {
	resp, err := s.service.SimulateForSubscriber(s.GetContext(), testutil.SubscriberID, dto.SimulatePlanChangeRequest{
		NewPlanID: testutil.PlanIDAhamoLarge,
	})
	s.Require().NoError(err)

	s.Equal("2024-07-01", resp.EffectiveDate.String())
	s.Equal(int64(2970), resp.CurrentMonthlyFee)
	s.Equal(int64(4950), resp.NewMonthlyFee)
	s.Equal(int64(1980), resp.PriceDifference)
	s.Equal(int64(1980), resp.MonthlyFeeDifference)
	s.Equal(int64(4950), resp.FirstMonthBilling)
	s.Equal(types.ChangeTimingCycleAligned, resp.Timing)
	s.Equal([]string{
		"Your plan type changes from ahamo to ahamo_large. Features added: 80GB data add-on.",
	}, resp.Notes)
}

func (s *PlanChangeServiceSuite) TestSimulateForSubscriber_MidCycle() {
	resp, err := s.service.SimulateForSubscriber(s.GetContext(), testutil.SubscriberID, dto.SimulatePlanChangeRequest{
		NewPlanID:     testutil.PlanIDAhamoLarge,
		EffectiveDate: on("2024-06-16"),
	})
	s.Require().NoError(err)

	s.Equal("2024-06-16", resp.EffectiveDate.String())
	s.Equal(int64(990), resp.PriceDifference)
	s.Equal(int64(3960), resp.FirstMonthBilling)
	s.Equal(types.ChangeTimingMidCycle, resp.Timing)
	s.Len(resp.Notes, 2)
	s.Contains(resp.Notes, "Your plan type changes from ahamo to ahamo_large. Features added: 80GB data add-on.")
}

func (s *PlanChangeServiceSuite) TestSimulateForSubscriber_Errors() {
	lockedContract := testutil.JuneContract()
	lockedContract.TenureLockedUntil = on("2024-09-01")

	tests := []struct {
		name     string
		contract *contract.Contract
		req      dto.SimulatePlanChangeRequest
		check    func(error) bool
	}{
		{
			name:  "missing new plan",
			req:   dto.SimulatePlanChangeRequest{},
			check: ierr.IsValidation,
		},
		{
			name:  "unknown plan",
			req:   dto.SimulatePlanChangeRequest{NewPlanID: "ahamo_unknown"},
			check: ierr.IsPlanNotFound,
		},
		{
			name:  "same plan",
			req:   dto.SimulatePlanChangeRequest{NewPlanID: testutil.PlanIDAhamo},
			check: ierr.IsNoOpChange,
		},
		{
			name: "past date",
			req: dto.SimulatePlanChangeRequest{
				NewPlanID:     testutil.PlanIDAhamoLarge,
				EffectiveDate: on("2024-06-09"),
			},
			check: ierr.IsInvalidDate,
		},
		{
			name:     "tenure locked",
			contract: lockedContract,
			req:      dto.SimulatePlanChangeRequest{NewPlanID: testutil.PlanIDAhamoLarge},
			check:    ierr.IsPolicyViolation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			if tt.contract != nil {
				s.GetStores().ContractRepo.Seed(tt.contract)
				defer s.GetStores().ContractRepo.Seed(testutil.JuneContract())
			}

			resp, err := s.service.SimulateForSubscriber(s.GetContext(), testutil.SubscriberID, tt.req)
			s.Require().Error(err)
			s.Nil(resp)
			s.True(tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

func (s *PlanChangeServiceSuite) TestSimulateForSubscriber_CachesResult() {
	req := dto.SimulatePlanChangeRequest{
		NewPlanID:     testutil.PlanIDAhamoLarge,
		EffectiveDate: on("2024-06-16"),
	}

	first, err := s.service.SimulateForSubscriber(s.GetContext(), testutil.SubscriberID, req)
	s.Require().NoError(err)

	second, err := s.service.SimulateForSubscriber(s.GetContext(), testutil.SubscriberID, req)
	s.Require().NoError(err)

	s.Same(first.Simulation, second.Simulation)
}

func (s *PlanChangeServiceSuite) TestSimulateForSubscriber_CachedResultExpiresWithEffectiveDate() {
	req := dto.SimulatePlanChangeRequest{
		NewPlanID:     testutil.PlanIDAhamoLarge,
		EffectiveDate: on("2024-06-16"),
	}

	_, err := s.service.SimulateForSubscriber(s.GetContext(), testutil.SubscriberID, req)
	s.Require().NoError(err)

	s.SetNow(time.Date(2024, 6, 20, 1, 0, 0, 0, time.UTC))

	_, err = s.service.SimulateForSubscriber(s.GetContext(), testutil.SubscriberID, req)
	s.Require().Error(err)
	s.True(ierr.IsInvalidDate(err))
}

func (s *PlanChangeServiceSuite) TestSimulate_Raw() {
	resp, err := s.service.Simulate(s.GetContext(), dto.SimulateRawPlanChangeRequest{
		CurrentPlan: testutil.AhamoLargePlan(),
		BillingPeriod: contract.BillingPeriod{
			Start: types.MustParseDate("2024-06-01"),
			End:   types.MustParseDate("2024-07-01"),
		},
		NewPlanID:     testutil.PlanIDAhamo,
		EffectiveDate: on("2024-06-16"),
	})
	s.Require().NoError(err)

	s.Equal(int64(-990), resp.PriceDifference)
	s.Equal(int64(3960), resp.FirstMonthBilling)
	s.Equal(int64(-1980), resp.MonthlyFeeDifference)
	s.Equal(types.ChangeDirectionDowngrade, resp.Direction)
	s.Contains(resp.Notes, "Unused data from your current 100GB allowance will be forfeited when the change takes effect on 2024-06-16.")
}

func (s *PlanChangeServiceSuite) TestSimulate_RawErrors() {
	june := contract.BillingPeriod{
		Start: types.MustParseDate("2024-06-01"),
		End:   types.MustParseDate("2024-07-01"),
	}

	tests := []struct {
		name  string
		req   dto.SimulateRawPlanChangeRequest
		check func(error) bool
	}{
		{
			name: "missing current plan",
			req: dto.SimulateRawPlanChangeRequest{
				BillingPeriod: june,
				NewPlanID:     testutil.PlanIDAhamo,
			},
			check: ierr.IsValidation,
		},
		{
			name: "inverted billing period",
			req: dto.SimulateRawPlanChangeRequest{
				CurrentPlan:   testutil.AhamoLargePlan(),
				BillingPeriod: contract.BillingPeriod{Start: june.End, End: june.Start},
				NewPlanID:     testutil.PlanIDAhamo,
			},
			check: ierr.IsValidation,
		},
		{
			name: "carry-over exceeds new allowance",
			req: dto.SimulateRawPlanChangeRequest{
				CurrentPlan:   testutil.AhamoLargePlan(),
				BillingPeriod: june,
				NewPlanID:     testutil.PlanIDAhamo,
				EffectiveDate: on("2024-06-16"),
				Policy: &planchange.PolicyInput{
					CarryOverGB: decimal.NewFromInt(30),
				},
			},
			check: ierr.IsPolicyViolation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Simulate(s.GetContext(), tt.req)
			s.Require().Error(err)
			s.True(tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

func (s *PlanChangeServiceSuite) TestListChangeOptions() {
	s.GetStores().PlanRepo.Seed(miniPlan())

	resp, err := s.service.ListChangeOptions(s.GetContext(), testutil.SubscriberID, dto.ListChangeOptionsRequest{})
	s.Require().NoError(err)

	s.Equal(testutil.PlanIDAhamo, resp.CurrentPlanID)
	s.Require().Len(resp.Options, 2)

	mini, large := resp.Options[0], resp.Options[1]
	s.Equal("ahamo_mini", mini.PlanID)
	s.Require().NotNil(mini.Simulation)
	s.Nil(mini.Error)
	s.Equal(int64(-990), mini.Simulation.PriceDifference)
	s.Equal(int64(1980), mini.Simulation.FirstMonthBilling)

	s.Equal(testutil.PlanIDAhamoLarge, large.PlanID)
	s.Require().NotNil(large.Simulation)
	s.Equal(int64(4950), large.Simulation.FirstMonthBilling)
}

func (s *PlanChangeServiceSuite) TestListChangeOptions_ReportsPerPlanErrors() {
	s.GetStores().PlanRepo.Seed(miniPlan())

	c := testutil.JuneContract()
	c.Usage.CarryOverGB = decimal.NewFromInt(15)
	s.GetStores().ContractRepo.Seed(c)

	resp, err := s.service.ListChangeOptions(s.GetContext(), testutil.SubscriberID, dto.ListChangeOptionsRequest{
		EffectiveDate: on("2024-06-16"),
	})
	s.Require().NoError(err)
	s.Require().Len(resp.Options, 2)

	mini := resp.Options[0]
	s.Nil(mini.Simulation)
	s.Require().NotNil(mini.Error)
	s.Equal(ierr.ErrorStatus, mini.Error.Status)
	s.Equal(ierr.ErrCodePolicyViolation, mini.Error.Code)
	s.Contains(mini.Error.Message, "(rule: mid_cycle_downgrade_carry_over)")

	large := resp.Options[1]
	s.Nil(large.Error)
	s.Require().NotNil(large.Simulation)
	s.Equal(int64(990), large.Simulation.PriceDifference)
}

func (s *PlanChangeServiceSuite) TestListChangeOptions_UnknownSubscriber() {
	_, err := s.service.ListChangeOptions(s.GetContext(), "sub_unknown", dto.ListChangeOptionsRequest{})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}
