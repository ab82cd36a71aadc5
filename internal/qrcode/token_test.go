package qrcode_test

import (
	"time"

	"github.com/frahmantamala/attendance-tracker/internal/qrcode"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JWTTokenIssuer", func() {
	var (
		issuer *qrcode.JWTTokenIssuer
		t0     time.Time
	)

	BeforeEach(func() {
		issuer = qrcode.NewJWTTokenIssuer("qr-secret-for-tests-only")
		t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	})

	It("round trips the employee identity", func() {
		code, err := issuer.Sign("E123", t0, t0.Add(5*time.Minute))
		Expect(err).NotTo(HaveOccurred())

		claims, err := issuer.Parse(code, t0.Add(time.Minute))
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.EmployeeID).To(Equal("E123"))
		Expect(claims.Subject).To(Equal("E123"))
		Expect(claims.ID).NotTo(BeEmpty())
	})

	It("never produces the same code twice", func() {
		a, err := issuer.Sign("E123", t0, t0.Add(5*time.Minute))
		Expect(err).NotTo(HaveOccurred())
		b, err := issuer.Sign("E123", t0, t0.Add(5*time.Minute))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})

	It("rejects expired codes", func() {
		code, err := issuer.Sign("E123", t0, t0.Add(5*time.Minute))
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Parse(code, t0.Add(5*time.Minute+2*time.Second))
		Expect(err).To(HaveOccurred())
	})

	It("rejects codes signed with another secret", func() {
		other := qrcode.NewJWTTokenIssuer("a-completely-different-secret")
		code, err := other.Sign("E123", t0, t0.Add(5*time.Minute))
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Parse(code, t0)
		Expect(err).To(HaveOccurred())
	})

	It("rejects arbitrary text", func() {
		_, err := issuer.Parse("QR-E123-1700000000000", t0)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("PNGRenderer", func() {
	It("renders a PNG data URL", func() {
		dataURL, err := qrcode.NewPNGRenderer().Render("hello")
		Expect(err).NotTo(HaveOccurred())
		Expect(dataURL).To(HavePrefix("data:image/png;base64,iVBORw0KGgo"))
	})
})
