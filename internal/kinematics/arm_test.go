package kinematics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/armsim/internal/kinematics"
)

var _ = Describe("Arm", func() {
	var arm *kinematics.Arm

	BeforeEach(func() {
		arm = kinematics.NewArm(kinematics.DefaultLinks)
	})

	It("stretches along the x axis at zero angles", func() {
		pts := arm.JointPositions(kinematics.Angles{})
		Expect(pts[0]).To(Equal(kinematics.Point{}))
		Expect(pts[1].X).To(BeNumerically("~", 1.0, 1e-12))
		Expect(pts[2].X).To(BeNumerically("~", 1.8, 1e-12))
		Expect(pts[3].X).To(BeNumerically("~", 2.4, 1e-12))
		for _, p := range pts {
			Expect(p.Y).To(BeNumerically("~", 0, 1e-12))
		}
	})

	It("accumulates rotations along the chain", func() {
		q := kinematics.Angles{0.5, 0.5, -0.2}
		ee := arm.EndEffector(q)

		x := math.Cos(0.5) + 0.8*math.Cos(1.0) + 0.6*math.Cos(0.8)
		y := math.Sin(0.5) + 0.8*math.Sin(1.0) + 0.6*math.Sin(0.8)
		Expect(ee.X).To(BeNumerically("~", x, 1e-12))
		Expect(ee.Y).To(BeNumerically("~", y, 1e-12))
	})

	It("agrees with the last joint position", func() {
		q := kinematics.Angles{-2.1, 4.0, 7.3}
		Expect(arm.EndEffector(q)).To(Equal(arm.JointPositions(q)[3]))
	})

	It("keeps every link at its length", func() {
		q := kinematics.Angles{1.1, -0.4, 2.9}
		pts := arm.JointPositions(q)
		Expect(pts[0].Dist(pts[1])).To(BeNumerically("~", 1.0, 1e-12))
		Expect(pts[1].Dist(pts[2])).To(BeNumerically("~", 0.8, 1e-12))
		Expect(pts[2].Dist(pts[3])).To(BeNumerically("~", 0.6, 1e-12))
	})

	It("treats full turns as the same pose", func() {
		q := kinematics.Angles{0.3, 0.2, 0.1}
		turned := kinematics.Angles{0.3 + 2*math.Pi, 0.2 - 4*math.Pi, 0.1}
		a, b := arm.EndEffector(q), arm.EndEffector(turned)
		Expect(a.Dist(b)).To(BeNumerically("<", 1e-9))
	})
})

var _ = Describe("Links", func() {
	DescribeTable("validation",
		func(l kinematics.Links, valid bool) {
			err := l.Validate()
			if valid {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(err).To(MatchError(kinematics.ErrInvalidLinks))
			}
		},
		Entry("default", kinematics.DefaultLinks, true),
		Entry("zero link", kinematics.Links{L1: 1, L2: 0, L3: 1}, false),
		Entry("negative link", kinematics.Links{L1: -1, L2: 1, L3: 1}, false),
		Entry("nan link", kinematics.Links{L1: 1, L2: 1, L3: math.NaN()}, false),
		Entry("infinite link", kinematics.Links{L1: math.Inf(1), L2: 1, L3: 1}, false),
	)
})
