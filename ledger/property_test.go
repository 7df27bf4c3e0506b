package ledger_test

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/haven-health-passport/chaincode/risk-scores/internal/chaincodetest"
	"github.com/haven-health-passport/chaincode/risk-scores/ledger"
)

func properties(minSuccessful int) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = minSuccessful
	return gopter.NewProperties(parameters)
}

func nonEmptyName() gopter.Gen {
	return gen.AlphaString().SuchThat(func(s string) bool { return s != "" })
}

// TestRegisterAtMostOnce verifies a second registration always fails.
// Property: Register(id, a) succeeds => Register(id, b) fails with AlreadyRegistered
func TestRegisterAtMostOnce(t *testing.T) {
	props := properties(50)

	props.Property("registration succeeds once per identity", prop.ForAll(
		func(id, first, second string) bool {
			f := newFixture(t)
			register := func(name string) error {
				return f.tx(func(l *ledger.Ledger) error {
					_, err := l.Registry.Register(id, name, "InsurerMSP")
					return err
				})
			}

			if err := register(first); err != nil {
				return false
			}
			return errors.Is(register(second), ledger.ErrAlreadyRegistered)
		},
		gen.Identifier(),
		nonEmptyName(),
		nonEmptyName(),
	))

	props.Property("blank names are rejected for any identity", prop.ForAll(
		func(id, name string) bool {
			f := newFixture(t)
			err := f.tx(func(l *ledger.Ledger) error {
				_, err := l.Registry.Register(id, name, "InsurerMSP")
				return err
			})
			return errors.Is(err, ledger.ErrInvalidArgument) && f.stateSize() == 0
		},
		gen.Identifier(),
		gen.OneConstOf("", " ", "\t", "\n  "),
	))

	props.TestingRun(t)
}

// TestSubmitPreconditions verifies submission gating.
// Property: Submit fails with UnknownConsumer iff the consumer is unregistered,
// and at most one submission per pair succeeds.
func TestSubmitPreconditions(t *testing.T) {
	props := properties(30)

	props.Property("unknown consumer iff unregistered", prop.ForAll(
		func(subjectID, consumerID string, registered bool) bool {
			f := newFixture(t)
			if registered {
				f.register(consumerID, "Insurer")
			}

			cts, proof := chaincodetest.Submission(subjectID, "seed")
			err := f.tx(func(l *ledger.Ledger) error {
				_, err := l.Submissions.Submit(subjectID, subjectID, consumerID, cts, proof)
				return err
			})
			chaincodetest.Events(f.stub)
			return errors.Is(err, ledger.ErrUnknownConsumer) == !registered
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Bool(),
	))

	props.Property("at most one submission per pair", prop.ForAll(
		func(subjectID, consumerID string, seeds []string) bool {
			f := newFixture(t)
			f.register(consumerID, "Insurer")
			f.submit(subjectID, consumerID)

			for _, seed := range seeds {
				cts, proof := chaincodetest.Submission(subjectID, seed)
				err := f.tx(func(l *ledger.Ledger) error {
					_, err := l.Submissions.Submit(subjectID, subjectID, consumerID, cts, proof)
					return err
				})
				if !errors.Is(err, ledger.ErrAlreadySubmitted) {
					return false
				}
			}
			chaincodetest.Events(f.stub)
			return true
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.SliceOfN(5, gen.AlphaString()),
	))

	props.TestingRun(t)
}

// TestComputePreconditions verifies NoHealthData iff nothing was submitted.
func TestComputePreconditions(t *testing.T) {
	props := properties(30)

	props.Property("no health data iff not submitted", prop.ForAll(
		func(subjectID, consumerID, caller string, submitted bool) bool {
			f := newFixture(t)
			f.register(consumerID, "Insurer")
			if submitted {
				f.submit(subjectID, consumerID)
			}

			compute := func() error {
				return f.tx(func(l *ledger.Ledger) error {
					_, err := l.Scoring.Compute(caller, subjectID, consumerID)
					return err
				})
			}

			err := compute()
			chaincodetest.Events(f.stub)
			if !submitted {
				return errors.Is(err, ledger.ErrNoHealthData)
			}
			return err == nil && errors.Is(compute(), ledger.ErrAlreadyComputed)
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
		gen.Bool(),
	))

	props.TestingRun(t)
}

// TestPermissionFollowsLastAction verifies grant/revoke toggling.
// Property: after any grant/revoke sequence, HasPermission equals "last action
// was grant", the consumer reads the score iff permitted, the subject always.
func TestPermissionFollowsLastAction(t *testing.T) {
	props := properties(30)

	props.Property("permission follows the last action", prop.ForAll(
		func(actions []bool) bool {
			f := newFixture(t)
			f.computed(subject, consumer)

			want := false
			for _, grant := range actions {
				var err error
				if grant {
					err = f.grant(subject, consumer)
				} else {
					err = f.revoke(subject, consumer)
				}
				if err != nil {
					return false
				}
				want = grant
				chaincodetest.Events(f.stub)
			}

			if f.hasPermission(subject, consumer) != want {
				return false
			}
			if _, err := f.getScore(subject, subject, consumer); err != nil {
				return false
			}
			_, err := f.getScore(consumer, subject, consumer)
			if want {
				return err == nil
			}
			return errors.Is(err, ledger.ErrUnauthorized)
		},
		gen.SliceOfN(12, gen.Bool()),
	))

	props.TestingRun(t)
}
