package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorenzlab/internal/dynamo"
	"github.com/san-kum/lorenzlab/internal/physics"
	"github.com/san-kum/lorenzlab/internal/sim"
)

var _ = Describe("Simulator", func() {
	var (
		ctx    context.Context
		params physics.Params
		grid   sim.TimeGrid
		ics    []sim.InitialCondition
	)

	BeforeEach(func() {
		ctx = context.Background()
		params = physics.Classic()
		grid = sim.TimeGrid{MaxTime: 1.0, Samples: 101}

		var err error
		ics, err = sim.RandomInitialConditions(4, 1, sim.DefaultBox)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Simulate", func() {
		It("returns one trajectory per initial condition in input order", func() {
			set, err := sim.Simulate(ctx, params, ics, grid)
			Expect(err).NotTo(HaveOccurred())
			Expect(set.Len()).To(Equal(len(ics)))

			for i, tr := range set.Trajectories {
				Expect(tr.Initial).To(Equal(ics[i]))
				Expect(tr.States).To(HaveLen(grid.Samples))
				Expect(tr.States[0]).To(Equal(ics[i].State()))
			}
		})

		It("shares parameters and grid across the set", func() {
			set, err := sim.Simulate(ctx, params, ics, grid)
			Expect(err).NotTo(HaveOccurred())
			Expect(set.Params).To(Equal(params))
			Expect(set.Grid).To(Equal(grid))
			Expect(set.Times).To(HaveLen(grid.Samples))
			Expect(set.Times[0]).To(Equal(0.0))
			Expect(set.Times[len(set.Times)-1]).To(Equal(grid.MaxTime))
			Expect(set.Integrator).To(Equal("rk45"))
		})

		It("is deterministic", func() {
			a, err := sim.Simulate(ctx, params, ics, grid)
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.Simulate(ctx, params, ics, grid)
			Expect(err).NotTo(HaveOccurred())

			for i := range a.Trajectories {
				Expect(b.Trajectories[i].States).To(Equal(a.Trajectories[i].States))
			}
		})

		It("tracks the Euler step over a short interval", func() {
			ic := sim.InitialCondition{1, 1, 1}
			set, err := sim.Simulate(ctx, params, []sim.InitialCondition{ic}, sim.TimeGrid{MaxTime: 0.01, Samples: 2})
			Expect(err).NotTo(HaveOccurred())

			states := set.Trajectories[0].States
			Expect(states[0]).To(Equal(dynamo.State{1, 1, 1}))

			d := physics.NewLorenz(params).Derive(states[0], 0)
			euler := states[0].Add(d.Scale(0.01))
			for k := range euler {
				Expect(states[1][k]).To(BeNumerically("~", euler[k], 0.05))
			}
		})

		It("returns the initial condition for a single-sample grid", func() {
			set, err := sim.Simulate(ctx, params, ics[:1], sim.TimeGrid{MaxTime: 2, Samples: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(set.Trajectories[0].States).To(Equal([]dynamo.State{ics[0].State()}))
		})

		It("stays on the attractor", func() {
			set, err := sim.Simulate(ctx, params, ics, sim.TimeGridFromDensity(4, sim.DefaultDensity))
			Expect(err).NotTo(HaveOccurred())
			for _, tr := range set.Trajectories {
				last := tr.States[len(tr.States)-1]
				Expect(last.IsValid()).To(BeTrue())
				Expect(math.Abs(last[0])).To(BeNumerically("<", 30))
				Expect(last[2]).To(BeNumerically(">", -5))
				Expect(last[2]).To(BeNumerically("<", 60))
			}
		})
	})

	Describe("validation", func() {
		expectField := func(err error, field string) {
			var ve *dynamo.ValidationError
			Expect(errors.As(err, &ve)).To(BeTrue(), "expected ValidationError, got %v", err)
			Expect(ve.Field).To(Equal(field))
		}

		It("rejects an empty initial-condition set", func() {
			_, err := sim.Simulate(ctx, params, nil, grid)
			expectField(err, "initial_conditions")
		})

		It("rejects a non-positive max time", func() {
			_, err := sim.Simulate(ctx, params, ics, sim.TimeGrid{MaxTime: 0, Samples: 10})
			expectField(err, "max_time")
			_, err = sim.Simulate(ctx, params, ics, sim.TimeGrid{MaxTime: -1, Samples: 10})
			expectField(err, "max_time")
		})

		It("rejects a non-positive sample count", func() {
			_, err := sim.Simulate(ctx, params, ics, sim.TimeGrid{MaxTime: 1, Samples: 0})
			expectField(err, "samples")
		})

		It("rejects non-finite parameters", func() {
			params.Rho = math.NaN()
			_, err := sim.Simulate(ctx, params, ics, grid)
			expectField(err, "rho")
		})

		It("rejects non-finite initial conditions", func() {
			ics[2][1] = math.Inf(1)
			_, err := sim.Simulate(ctx, params, ics, grid)
			expectField(err, "initial_conditions[2]")
		})

		It("rejects an unknown integrator", func() {
			_, err := sim.New(sim.Config{Integrator: "leapfrog"})
			expectField(err, "integrator")
		})
	})

	Describe("parallel runs", func() {
		It("match the sequential result", func() {
			seq, err := sim.New(sim.Config{Workers: 1})
			Expect(err).NotTo(HaveOccurred())
			par, err := sim.New(sim.Config{Workers: 4})
			Expect(err).NotTo(HaveOccurred())

			a, err := seq.Simulate(ctx, params, ics, grid)
			Expect(err).NotTo(HaveOccurred())
			b, err := par.Simulate(ctx, params, ics, grid)
			Expect(err).NotTo(HaveOccurred())

			for i := range a.Trajectories {
				Expect(b.Trajectories[i]).To(Equal(a.Trajectories[i]))
			}
		})
	})

	Describe("numerical failure", func() {
		It("names the offending initial condition", func() {
			s, err := sim.New(sim.Config{Solver: dynamo.Config{MaxSteps: 5}})
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Simulate(ctx, params, ics[:1], grid)
			var ne *dynamo.NumericalError
			Expect(errors.As(err, &ne)).To(BeTrue())
			Expect(ne.Index).To(Equal(0))
			Expect(ne.Initial).To(Equal(ics[0].State()))
			Expect(errors.Is(err, dynamo.ErrMaxSteps)).To(BeTrue())
		})

		It("stops on cancellation", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := sim.Simulate(cctx, params, ics, grid)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})
})
