package department_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/frahmantamala/attendance-tracker/internal/core/testdb"
	"github.com/frahmantamala/attendance-tracker/internal/department"
	departmentPostgres "github.com/frahmantamala/attendance-tracker/internal/department/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Department Handler", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := department.NewService(departmentPostgres.NewDepartmentRepository(db), lg)
		h := department.NewHandler(transport.NewBaseHandler(lg), service)

		router = chi.NewRouter()
		router.Get("/departments", h.GetDepartments)
		router.Post("/departments", h.CreateDepartment)
		router.Put("/departments/{id}", h.UpdateDepartment)
		router.Delete("/departments/{id}", h.DeleteDepartment)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("creates and lists departments ordered by name", func() {
		Expect(do(http.MethodPost, "/departments", `{"department_name":"Sales"}`).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/departments", `{"department_name":" Engineering ","description":"Builds"}`).Code).To(Equal(http.StatusCreated))

		rec := do(http.MethodGet, "/departments", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp department.DepartmentsResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Departments).To(HaveLen(2))
		Expect(resp.Departments[0].Name).To(Equal("Engineering"))
		Expect(resp.Departments[1].Name).To(Equal("Sales"))
	})

	It("rejects a blank name", func() {
		rec := do(http.MethodPost, "/departments", `{"department_name":"  "}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects duplicate names", func() {
		_, err := testdb.SeedDepartment(db, "Sales")
		Expect(err).NotTo(HaveOccurred())

		rec := do(http.MethodPost, "/departments", `{"department_name":"Sales"}`)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"Department already exists"}`))
	})

	It("renames a department while keeping its own name free", func() {
		d, err := testdb.SeedDepartment(db, "Sales")
		Expect(err).NotTo(HaveOccurred())
		path := "/departments/" + strconv.FormatInt(d.ID, 10)

		rec := do(http.MethodPut, path, `{"department_name":"Sales","description":"Revenue"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = do(http.MethodPut, path, `{"department_name":"Marketing"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var got department.Department
		Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
		Expect(got.Name).To(Equal("Marketing"))
	})

	It("refuses to delete a department with employees", func() {
		d, err := testdb.SeedDepartment(db, "Engineering")
		Expect(err).NotTo(HaveOccurred())
		_, err = testdb.SeedEmployee(db, "E123", "Ana", "Reyes", &d.ID)
		Expect(err).NotTo(HaveOccurred())

		rec := do(http.MethodDelete, "/departments/"+strconv.FormatInt(d.ID, 10), "")
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"Department still has employees"}`))
	})

	It("deletes an empty department", func() {
		d, err := testdb.SeedDepartment(db, "Legal")
		Expect(err).NotTo(HaveOccurred())
		path := "/departments/" + strconv.FormatInt(d.ID, 10)

		Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusNotFound))
	})

	It("rejects a malformed id", func() {
		Expect(do(http.MethodDelete, "/departments/abc", "").Code).To(Equal(http.StatusBadRequest))
	})
})
