package verification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"totem/internal/verification"
	"totem/internal/verification/mocks"
	"totem/pkg/clock"
	dErrors "totem/pkg/domain-errors"
)

type stubConfig struct {
	stand verification.StandContext
	err   error
}

func (s stubConfig) StandContext(context.Context) (verification.StandContext, error) {
	return s.stand, s.err
}

type stubMode struct{ mode verification.Mode }

func (s stubMode) Mode() verification.Mode { return s.mode }

type WorkflowSuite struct {
	suite.Suite

	ctrl    *gomock.Controller
	backend *mocks.MockBackend
	wf      *verification.Workflow
	now     time.Time
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.backend = mocks.NewMockBackend(s.ctrl)
	s.now = time.Date(2026, 8, 31, 10, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	wf, err := verification.NewWorkflow(
		s.backend,
		stubConfig{stand: verification.StandContext{
			StandName:  "the one",
			TabletName: "TABLET_001",
			BaseURL:    "http://192.168.0.34:8000",
		}},
		stubMode{mode: verification.ModeProduction},
		verification.WithClock(clock.Fixed{T: s.now}),
	)
	s.Require().NoError(err)
	s.wf = wf
}

func (s *WorkflowSuite) TestNewWorkflowRequiresCollaborators() {
	_, err := verification.NewWorkflow(nil, stubConfig{}, stubMode{})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = verification.NewWorkflow(s.backend, nil, stubMode{})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = verification.NewWorkflow(s.backend, stubConfig{}, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *WorkflowSuite) TestCheckRejectsMalformedCPFWithoutNetwork() {
	for _, input := range []string{"", "123", "123456789012", "abc.def.ghi-jk"} {
		s.Run(input, func() {
			_, err := s.wf.Check(context.Background(), input)
			s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}

func (s *WorkflowSuite) TestCheckAcceptsFormattedInput() {
	s.backend.EXPECT().
		CheckCPF(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req verification.CheckRequest) (verification.Result, error) {
			s.Equal("12345678901", req.CPF, "digits are stripped before the wire layer")
			s.Equal(clock.Stamp(s.now), req.CheckedAt)
			s.Equal("the one", req.Stand.StandName)
			return verification.Result{Outcome: verification.OutcomeFound}, nil
		})

	res, err := s.wf.Check(context.Background(), "123.456.789-01")
	s.Require().NoError(err)
	s.True(res.ConfirmationRequired)
	s.Equal(verification.StateAwaitingConfirmation, s.wf.Snapshot().State)
}

func (s *WorkflowSuite) TestCheckNotFoundReturnsToIdle() {
	s.backend.EXPECT().
		CheckCPF(gomock.Any(), gomock.Any()).
		Return(verification.Result{Outcome: verification.OutcomeNotFound, Message: "cpf não encontrado"}, nil)

	res, err := s.wf.Check(context.Background(), "12345678901")
	s.Require().NoError(err)
	s.Equal(verification.OutcomeNotFound, res.Outcome)
	s.False(res.ConfirmationRequired)

	snap := s.wf.Snapshot()
	s.Equal(verification.StateIdle, snap.State)
	s.Equal(verification.OutcomeNotFound, snap.LastOutcome)
}

func (s *WorkflowSuite) TestCheckAlreadyDoneIsTerminal() {
	s.backend.EXPECT().
		CheckCPF(gomock.Any(), gomock.Any()).
		Return(verification.Result{Outcome: verification.OutcomeAlreadyDone, Message: "Atividade já realizada"}, nil).
		Times(1)

	res, err := s.wf.Check(context.Background(), "12345678901")
	s.Require().NoError(err)
	s.Equal(verification.OutcomeAlreadyDone, res.Outcome)
	s.Equal("Atividade já realizada", res.Message)

	// Nothing pending: confirming now is a protocol error, not a second call.
	_, err = s.wf.Confirm(context.Background(), true)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *WorkflowSuite) TestCheckWhileCheckingIsRefusedWithoutNetwork() {
	inFlight := make(chan struct{})
	release := make(chan struct{})

	s.backend.EXPECT().
		CheckCPF(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, verification.CheckRequest) (verification.Result, error) {
			close(inFlight)
			<-release
			return verification.Result{Outcome: verification.OutcomeFound}, nil
		}).
		Times(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.wf.Check(context.Background(), "12345678901")
		s.NoError(err)
	}()

	<-inFlight
	_, err := s.wf.Check(context.Background(), "12345678901")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "second tap while checking must be refused")

	close(release)
	<-done
}

func (s *WorkflowSuite) TestConfirmDeclineSkipsNetwork() {
	s.backend.EXPECT().
		CheckCPF(gomock.Any(), gomock.Any()).
		Return(verification.Result{Outcome: verification.OutcomeFound}, nil)

	_, err := s.wf.Check(context.Background(), "12345678901")
	s.Require().NoError(err)

	res, err := s.wf.Confirm(context.Background(), false)
	s.Require().NoError(err)
	s.Equal(verification.OutcomeDeclined, res.Outcome)

	snap := s.wf.Snapshot()
	s.Equal(verification.StateIdle, snap.State)
	s.Equal(verification.OutcomeDeclined, snap.LastOutcome)
}

func (s *WorkflowSuite) TestConfirmAcceptRegistersActivity() {
	s.backend.EXPECT().
		CheckCPF(gomock.Any(), gomock.Any()).
		Return(verification.Result{Outcome: verification.OutcomeFound}, nil)
	s.backend.EXPECT().
		RegisterActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req verification.ActivityRequest) (verification.Result, error) {
			s.Equal("12345678901", req.Identifier)
			s.Equal(verification.MethodCPF, req.Method)
			s.Equal(clock.Stamp(s.now), req.AttemptAt, "timestamp is minted at confirmation time")
			return verification.Result{Outcome: verification.OutcomeSuccess}, nil
		})

	_, err := s.wf.Check(context.Background(), "12345678901")
	s.Require().NoError(err)

	res, err := s.wf.Confirm(context.Background(), true)
	s.Require().NoError(err)
	s.Equal(verification.OutcomeSuccess, res.Outcome)
	s.Equal(verification.StateIdle, s.wf.Snapshot().State)
}

func (s *WorkflowSuite) TestConfirmAcceptAlreadyDone() {
	s.backend.EXPECT().
		CheckCPF(gomock.Any(), gomock.Any()).
		Return(verification.Result{Outcome: verification.OutcomeFound}, nil)
	s.backend.EXPECT().
		RegisterActivity(gomock.Any(), gomock.Any()).
		Return(verification.Result{Outcome: verification.OutcomeAlreadyDone, Message: "Atividade já registrada"}, nil)

	_, err := s.wf.Check(context.Background(), "12345678901")
	s.Require().NoError(err)

	res, err := s.wf.Confirm(context.Background(), true)
	s.Require().NoError(err)
	s.Equal(verification.OutcomeAlreadyDone, res.Outcome)
	s.Equal("Atividade já registrada", res.Message)
}

func (s *WorkflowSuite) TestConfirmWithoutPendingIsConflict() {
	_, err := s.wf.Confirm(context.Background(), true)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *WorkflowSuite) TestScanEmptyPayloadIsIgnored() {
	for _, payload := range []string{"", "   ", "\n\t"} {
		res, err := s.wf.Scan(context.Background(), payload)
		s.Require().NoError(err)
		s.True(res.Ignored)
	}
	s.Equal(verification.StateIdle, s.wf.Snapshot().State)
}

func (s *WorkflowSuite) TestScanGoesStraightToConfirmation() {
	res, err := s.wf.Scan(context.Background(), "  qr-payload-xyz  ")
	s.Require().NoError(err)
	s.True(res.ConfirmationRequired)

	snap := s.wf.Snapshot()
	s.Equal(verification.StateAwaitingConfirmation, snap.State)
	s.Equal(verification.MethodQRCode, snap.PendingMethod)

	s.backend.EXPECT().
		RegisterActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req verification.ActivityRequest) (verification.Result, error) {
			s.Equal("qr-payload-xyz", req.Identifier, "payload is trimmed, nothing else")
			s.Equal(verification.MethodQRCode, req.Method)
			return verification.Result{Outcome: verification.OutcomeSuccess}, nil
		})

	_, err = s.wf.Confirm(context.Background(), true)
	s.Require().NoError(err)
}

func (s *WorkflowSuite) TestScanWhileAwaitingConfirmationIsSuppressed() {
	_, err := s.wf.Scan(context.Background(), "first")
	s.Require().NoError(err)

	res, err := s.wf.Scan(context.Background(), "second")
	s.Require().NoError(err)
	s.True(res.Ignored, "the camera keeps firing; only the first frame counts")

	s.backend.EXPECT().
		RegisterActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req verification.ActivityRequest) (verification.Result, error) {
			s.Equal("first", req.Identifier)
			return verification.Result{Outcome: verification.OutcomeSuccess}, nil
		})
	_, err = s.wf.Confirm(context.Background(), true)
	s.Require().NoError(err)
}

func (s *WorkflowSuite) TestRegisterValidatesBeforeNetwork() {
	valid := verification.RegistrationForm{
		CPF:       "12345678901",
		Name:      "Ana",
		LastName:  "Souza",
		Email:     "ana@example.com",
		Phone:     "11999998888",
		BirthDate: "25/12/1990",
	}

	s.Run("missing field", func() {
		form := valid
		form.Email = ""
		_, err := s.wf.Register(context.Background(), form)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("short cpf", func() {
		form := valid
		form.CPF = "123"
		_, err := s.wf.Register(context.Background(), form)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("under 18", func() {
		form := valid
		form.BirthDate = "01/09/2008" // 18 tomorrow, not today
		_, err := s.wf.Register(context.Background(), form)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *WorkflowSuite) TestRegisterSuccessOpensConfirmationGate() {
	s.backend.EXPECT().
		RegisterAttendee(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req verification.RegisterRequest) (verification.Result, error) {
			s.Equal("12345678901", req.CPF)
			s.Equal("Ana Souza", req.Name)
			s.Equal("1990-12-25", req.BirthDateISO)
			s.Equal(clock.Stamp(s.now), req.CreatedAt)
			return verification.Result{Outcome: verification.OutcomeSuccess}, nil
		})
	s.backend.EXPECT().
		RegisterActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req verification.ActivityRequest) (verification.Result, error) {
			s.Equal("12345678901", req.Identifier, "the freshly registered CPF rides into the activity call")
			s.Equal(verification.MethodCPF, req.Method)
			return verification.Result{Outcome: verification.OutcomeSuccess}, nil
		})

	res, err := s.wf.Register(context.Background(), verification.RegistrationForm{
		CPF:       "12345678901",
		Name:      "Ana",
		LastName:  "Souza",
		Email:     "ana@example.com",
		Phone:     "11999998888",
		BirthDate: "25/12/1990",
	})
	s.Require().NoError(err)
	s.Equal(verification.OutcomeSuccess, res.Outcome)
	s.True(res.ConfirmationRequired)

	_, err = s.wf.Confirm(context.Background(), true)
	s.Require().NoError(err)
}

func (s *WorkflowSuite) TestRegisterFailureSurfacesBackendMessage() {
	s.backend.EXPECT().
		RegisterAttendee(gomock.Any(), gomock.Any()).
		Return(verification.Result{Outcome: verification.OutcomeError, Message: "email inválido"}, nil)

	_, err := s.wf.Register(context.Background(), verification.RegistrationForm{
		CPF:       "12345678901",
		Name:      "Ana",
		LastName:  "Souza",
		Email:     "ana@example.com",
		Phone:     "11999998888",
		BirthDate: "25/12/1990",
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "email inválido")
	s.Equal(verification.StateIdle, s.wf.Snapshot().State)
}

func (s *WorkflowSuite) TestResetDiscardsPendingConfirmation() {
	_, err := s.wf.Scan(context.Background(), "payload")
	s.Require().NoError(err)

	s.wf.Reset()

	s.Equal(verification.StateIdle, s.wf.Snapshot().State)
	_, err = s.wf.Confirm(context.Background(), true)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *WorkflowSuite) TestBackendErrorReturnsToIdle() {
	s.backend.EXPECT().
		CheckCPF(gomock.Any(), gomock.Any()).
		Return(verification.Result{}, dErrors.New(dErrors.CodeUnavailable, "could not reach production API"))

	_, err := s.wf.Check(context.Background(), "12345678901")
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal(verification.StateIdle, s.wf.Snapshot().State)

	// Workflow is usable again right away.
	s.backend.EXPECT().
		CheckCPF(gomock.Any(), gomock.Any()).
		Return(verification.Result{Outcome: verification.OutcomeFound}, nil)
	res, err := s.wf.Check(context.Background(), "12345678901")
	s.Require().NoError(err)
	s.True(res.ConfirmationRequired)
}
