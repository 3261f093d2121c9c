package kinematics_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/armsim/internal/kinematics"
)

var _ = Describe("Solver", func() {
	var (
		arm    *kinematics.Arm
		solver *kinematics.Solver
	)

	BeforeEach(func() {
		arm = kinematics.NewArm(kinematics.DefaultLinks)
		solver = kinematics.NewSolver(kinematics.DefaultLinks)
	})

	It("round-trips a reachable target through forward kinematics", func() {
		target := kinematics.Point{X: 1.5, Y: 0.5}

		q, err := solver.Solve(target)
		Expect(err).NotTo(HaveOccurred())
		Expect(q[2]).To(Equal(0.0))

		ee := arm.EndEffector(q)
		Expect(ee.X).To(BeNumerically("~", target.X, 1e-6))
		Expect(ee.Y).To(BeNumerically("~", target.Y, 1e-6))
	})

	DescribeTable("round trip across the workspace",
		func(x, y float64) {
			q, err := solver.Solve(kinematics.Point{X: x, Y: y})
			Expect(err).NotTo(HaveOccurred())
			Expect(q.IsValid()).To(BeTrue())
			Expect(q[1]).To(BeNumerically(">=", 0))

			ee := arm.EndEffector(q)
			Expect(ee.X).To(BeNumerically("~", x, 1e-6))
			Expect(ee.Y).To(BeNumerically("~", y, 1e-6))
		},
		Entry("first quadrant", 1.2, 1.1),
		Entry("second quadrant", -0.9, 1.4),
		Entry("third quadrant", -1.0, -1.0),
		Entry("fourth quadrant", 0.7, -1.9),
		Entry("near the inner boundary", 0.45, 0.0),
		Entry("on the y axis", 0.0, 2.0),
	)

	DescribeTable("reachability boundary",
		func(target kinematics.Point) {
			q, err := solver.Solve(target)
			Expect(err).NotTo(HaveOccurred())
			Expect(q.IsValid()).To(BeTrue())
			Expect(q[1]).To(BeNumerically("~", 0, 1e-6))
			Expect(solver.Reachable(target)).To(BeTrue())
		},
		Entry("on the x axis", kinematics.Point{X: 2.4, Y: 0}),
		Entry("on the y axis", kinematics.Point{X: 0, Y: 2.4}),
	)

	It("rejects a target just beyond the reach", func() {
		target := kinematics.Point{X: 2.4 + 1e-9, Y: 0}

		_, err := solver.Solve(target)
		Expect(err).To(MatchError(kinematics.ErrUnreachable))
		Expect(solver.Reachable(target)).To(BeFalse())

		var ue *kinematics.UnreachableError
		Expect(errors.As(err, &ue)).To(BeTrue())
		Expect(ue.Target).To(Equal(target))
		Expect(ue.Reach).To(BeNumerically("~", 2.4, 1e-12))
	})

	It("rejects a far target", func() {
		_, err := solver.Solve(kinematics.Point{X: 10, Y: 10})
		Expect(err).To(MatchError(kinematics.ErrUnreachable))
	})

	It("rejects a target that is not finite", func() {
		target := kinematics.Point{X: math.NaN(), Y: 0.5}

		_, err := solver.Solve(target)
		Expect(err).To(MatchError(kinematics.ErrUnreachable))
		Expect(solver.Reachable(target)).To(BeFalse())
		Expect(target.IsValid()).To(BeFalse())
	})

	It("is well defined at the base", func() {
		q, err := solver.Solve(kinematics.Point{})
		Expect(err).NotTo(HaveOccurred())
		Expect(q.IsValid()).To(BeTrue())
		Expect(q[1]).To(BeNumerically("~", math.Pi, 1e-12))
	})
})
