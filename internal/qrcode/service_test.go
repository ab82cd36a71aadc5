package qrcode_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	qrcodeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/qrcode"
	"github.com/frahmantamala/attendance-tracker/internal/core/testdb"
	"github.com/frahmantamala/attendance-tracker/internal/employee"
	employeePostgres "github.com/frahmantamala/attendance-tracker/internal/employee/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/qrcode"
	qrcodePostgres "github.com/frahmantamala/attendance-tracker/internal/qrcode/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("QR Code Service", func() {
	var (
		db      *gorm.DB
		service *qrcode.Service
		ctx     context.Context
		now     time.Time
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		_, err = testdb.SeedEmployee(db, "E123", "Ana", "Reyes", nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = testdb.SeedEmployee(db, "E200", "Ben", "Cruz", nil)
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		employees := employee.NewService(employeePostgres.NewEmployeeRepository(db), auth.NewHasher(bcrypt.MinCost), lg)
		service = qrcode.NewService(
			qrcodePostgres.NewQRCodeRepository(db),
			qrcode.NewJWTTokenIssuer("qr-secret-for-tests-only"),
			qrcode.NewPNGRenderer(),
			employees,
			5*time.Minute,
			lg,
		)

		now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		service.Now = func() time.Time { return now }
		ctx = context.Background()
	})

	Describe("Issue", func() {
		It("stores one credential expiring exactly one window later", func() {
			cred, err := service.Issue(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			Expect(cred.ExpiresAt.Sub(cred.IssuedAt)).To(Equal(5 * time.Minute))

			var count int64
			Expect(db.Model(&qrcodeDatamodel.QRCode{}).Where("employee_id = ?", "E123").Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("rejects an empty identity without writing a row", func() {
			_, err := service.Issue(ctx, "  ")
			Expect(err).To(MatchError(qrcode.ErrInvalidIdentity))

			var count int64
			Expect(db.Model(&qrcodeDatamodel.QRCode{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("rejects unknown employees", func() {
			_, err := service.Issue(ctx, "E999")
			Expect(err).To(MatchError(employee.ErrEmployeeNotFound))
		})

		It("keeps a single row per employee across reissues", func() {
			_, err := service.Issue(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			now = now.Add(time.Minute)
			second, err := service.Issue(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())

			latest, err := service.Latest(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			Expect(latest.CodeValue).To(Equal(second.CodeValue))
			Expect(latest.ExpiresAt.UnixMilli()).To(Equal(second.ExpiresAt.UnixMilli()))

			var count int64
			Expect(db.Model(&qrcodeDatamodel.QRCode{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("Latest", func() {
		It("reports a missing credential", func() {
			_, err := service.Latest(ctx, "E123")
			Expect(err).To(MatchError(qrcode.ErrCredentialNotFound))
		})
	})

	Describe("Verify", func() {
		var cred *qrcode.Credential

		BeforeEach(func() {
			var err error
			cred, err = service.Issue(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
		})

		It("accepts a code at the end of its window", func() {
			now = now.Add(300 * time.Second)
			result, err := service.Verify(ctx, cred.CodeValue)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.EmployeeID).To(Equal("E123"))
			Expect(result.Employee.FirstName).To(Equal("Ana"))
		})

		It("rejects a code one second past its window", func() {
			now = now.Add(301 * time.Second)
			_, err := service.Verify(ctx, cred.CodeValue)
			Expect(err).To(MatchError(qrcode.ErrInvalidOrExpiredCode))
		})

		It("is idempotent inside the window", func() {
			_, err := service.Verify(ctx, cred.CodeValue)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Verify(ctx, cred.CodeValue)
			Expect(err).NotTo(HaveOccurred())
		})

		It("invalidates the previous code on reissue", func() {
			now = now.Add(10 * time.Second)
			fresh, err := service.Issue(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Verify(ctx, cred.CodeValue)
			Expect(err).To(MatchError(qrcode.ErrInvalidOrExpiredCode))

			result, err := service.Verify(ctx, fresh.CodeValue)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.EmployeeID).To(Equal("E123"))
		})

		It("does not confuse two employees", func() {
			other, err := service.Issue(ctx, "E200")
			Expect(err).NotTo(HaveOccurred())

			result, err := service.Verify(ctx, other.CodeValue)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.EmployeeID).To(Equal("E200"))
		})

		It("gives the same answer for garbage and for stale codes", func() {
			_, garbageErr := service.Verify(ctx, "not-a-code")
			now = now.Add(time.Hour)
			_, staleErr := service.Verify(ctx, cred.CodeValue)

			Expect(garbageErr).To(MatchError(qrcode.ErrInvalidOrExpiredCode))
			Expect(staleErr).To(MatchError(qrcode.ErrInvalidOrExpiredCode))

			appErr, ok := internal.IsAppError(staleErr)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal("Invalid or expired QR code"))
		})
	})

	Describe("List and Delete", func() {
		It("lists credentials with names and expiry", func() {
			_, err := service.Issue(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			now = now.Add(10 * time.Minute)
			_, err = service.Issue(ctx, "E200")
			Expect(err).NotTo(HaveOccurred())

			views, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(views).To(HaveLen(2))
			Expect(views[0].EmployeeID).To(Equal("E200"))
			Expect(views[0].Expired).To(BeFalse())
			Expect(views[1].FirstName).To(Equal("Ana"))
			Expect(views[1].Expired).To(BeTrue())
		})

		It("deletes by id and reports missing ids", func() {
			_, err := service.Issue(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			views, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, views[0].ID)).To(Succeed())
			Expect(service.Delete(ctx, views[0].ID)).To(MatchError(qrcode.ErrCredentialNotFound))
		})
	})
})
