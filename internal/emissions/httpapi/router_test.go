package httpapi

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/emission-report/internal/emissions/domain"
	"github.com/yungbote/emission-report/internal/emissions/report"
	"github.com/yungbote/emission-report/internal/emissions/upstream/fake"
	"github.com/yungbote/emission-report/internal/emissions/upstream/httpclient"
	"github.com/yungbote/emission-report/internal/platform/logger"
)

func sampleRecords() []domain.EmissionRecord {
	at := func(d int) domain.Timestamp {
		return domain.NewTimestamp(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
	}
	return []domain.EmissionRecord{
		{ModelNodeName: "A", MaterialNumber: "M1", CountryCode: "DE", CategoryID: 1, Total: 1, SourceCreateTimestamp: at(1)},
		{ModelNodeName: "A", MaterialNumber: "M2", CountryCode: "DE", CategoryID: 2, Total: 2, SourceCreateTimestamp: at(10)},
		{ModelNodeName: "B", MaterialNumber: "M3", CountryCode: "FR", CategoryID: 1, Total: 5, SourceCreateTimestamp: at(20)},
	}
}

func testRouter(t *testing.T, client *fake.Client) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Nop()
	svc := report.NewService(log, client, report.Options{})
	return NewRouter(log, RouterConfig{
		ReportHandler:   NewReportHandler(log, svc),
		RecordHandler:   NewRecordHandler(log, client),
		ServiceName:     "emission-report-test",
		CORSOrigins:     []string{"http://localhost:3000"},
		MaxRequestBytes: 1 << 20,
	})
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeRecords(t *testing.T, rr *httptest.ResponseRecorder) []domain.EmissionRecord {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var out []domain.EmissionRecord
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int) errorBody {
	t.Helper()
	if rr.Code != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, wantStatus, rr.Body.String())
	}
	var out errorBody
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != wantStatus {
		t.Fatalf("body status=%d want=%d", out.Status, wantStatus)
	}
	return out
}

func TestHealthcheck(t *testing.T) {
	rr := do(testRouter(t, fake.New()), http.MethodGet, "/healthcheck", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get(headerRequestID) == "" {
		t.Fatalf("missing %s header", headerRequestID)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := testRouter(t, fake.New())
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(headerRequestID, "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get(headerRequestID); got != "req-123" {
		t.Fatalf("request id=%q", got)
	}
}

func TestByMaterialNo(t *testing.T) {
	h := testRouter(t, fake.New(sampleRecords()...))

	out := decodeRecords(t, do(h, http.MethodGet, "/api/emissions/material?materialNo=M2", ""))
	if len(out) != 1 || out[0].MaterialNumber != "M2" {
		t.Fatalf("unexpected records: %+v", out)
	}
}

func TestByMaterialNoBlankIsBadRequest(t *testing.T) {
	client := fake.New(sampleRecords()...)
	h := testRouter(t, client)

	for _, target := range []string{"/api/emissions/material", "/api/emissions/material?materialNo=%20%20"} {
		body := decodeError(t, do(h, http.MethodGet, target, ""), http.StatusBadRequest)
		if body.Error != report.MsgMaterialRequired {
			t.Fatalf("error=%q", body.Error)
		}
	}
	if client.TotalCalls() != 0 {
		t.Fatalf("upstream called %d times", client.TotalCalls())
	}
}

func TestByMaterialNoNotFound(t *testing.T) {
	client := fake.New()
	client.Absent = true
	h := testRouter(t, client)

	decodeError(t, do(h, http.MethodGet, "/api/emissions/material?materialNo=M9", ""), http.StatusNotFound)
}

func TestByCountryCode(t *testing.T) {
	h := testRouter(t, fake.New(sampleRecords()...))

	out := decodeRecords(t, do(h, http.MethodGet, "/api/emissions/country?isoCode=FR", ""))
	if len(out) != 1 || out[0].MaterialNumber != "M3" {
		t.Fatalf("unexpected records: %+v", out)
	}

	body := decodeError(t, do(h, http.MethodGet, "/api/emissions/country", ""), http.StatusBadRequest)
	if body.Error != report.MsgCountryRequired {
		t.Fatalf("error=%q", body.Error)
	}
}

func TestByCategoryID(t *testing.T) {
	h := testRouter(t, fake.New(sampleRecords()...))

	out := decodeRecords(t, do(h, http.MethodGet, "/api/emissions/category?categoryId=1", ""))
	if len(out) != 2 || out[0].MaterialNumber != "M1" || out[1].MaterialNumber != "M3" {
		t.Fatalf("unexpected records: %+v", out)
	}

	out = decodeRecords(t, do(h, http.MethodGet, "/api/emissions/category?categoryId=42", ""))
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}

	decodeError(t, do(h, http.MethodGet, "/api/emissions/category?categoryId=abc", ""), http.StatusBadRequest)
}

func TestByRange(t *testing.T) {
	h := testRouter(t, fake.New(sampleRecords()...))

	out := decodeRecords(t, do(h, http.MethodGet, "/api/emissions/range?startDate=2024-01-01&endDate=2024-01-10", ""))
	if len(out) != 2 {
		t.Fatalf("expected 2 records (inclusive bounds), got %d", len(out))
	}

	body := decodeError(t, do(h, http.MethodGet, "/api/emissions/range?startDate=2024-01-01&endDate=2023-01-01", ""), http.StatusBadRequest)
	if body.Error != report.MsgRangeInverted {
		t.Fatalf("error=%q", body.Error)
	}

	body = decodeError(t, do(h, http.MethodGet, "/api/emissions/range?startDate=2024-01-01", ""), http.StatusBadRequest)
	if body.Error != report.MsgRangeRequired {
		t.Fatalf("error=%q", body.Error)
	}

	decodeError(t, do(h, http.MethodGet, "/api/emissions/range?startDate=soon&endDate=2024-01-01", ""), http.StatusBadRequest)
}

func TestOutliersDownload(t *testing.T) {
	h := testRouter(t, fake.New(sampleRecords()...))

	rr := do(h, http.MethodGet, "/api/emissions/outliers", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content-type=%q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, report.DownloadFileName) {
		t.Fatalf("content-disposition=%q", cd)
	}

	r := csv.NewReader(rr.Body)
	r.Comma = '|'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0][0] != "Material_Hierarchy_Model_Node_Name" {
		t.Fatalf("header=%v", rows[0])
	}
}

func TestOutliersEmptyIsNotFound(t *testing.T) {
	body := decodeError(t, do(testRouter(t, fake.New()), http.MethodGet, "/api/emissions/outliers", ""), http.StatusNotFound)
	if body.Error != report.MsgNoExportData {
		t.Fatalf("error=%q", body.Error)
	}
}

func TestSummary(t *testing.T) {
	h := testRouter(t, fake.New(sampleRecords()...))

	rr := do(h, http.MethodGet, "/api/emissions/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var out domain.ReportSummary
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TotalRecords != 3 {
		t.Fatalf("totalRecords=%d", out.TotalRecords)
	}
	if out.EmissionsByModel.Data["A"] != 3 || out.EmissionsByModel.Data["B"] != 5 {
		t.Fatalf("byModel=%v", out.EmissionsByModel.Data)
	}
	if out.EmissionsByModelAndMaterial.Data["A - M2"] != 2 {
		t.Fatalf("byModelAndMaterial=%v", out.EmissionsByModelAndMaterial.Data)
	}
	if out.EmissionsByModel.Unit != domain.EmissionUnit {
		t.Fatalf("unit=%q", out.EmissionsByModel.Unit)
	}

	decodeError(t, do(testRouter(t, fake.New()), http.MethodGet, "/api/emissions/summary", ""), http.StatusNotFound)
}

func TestUpstreamFailureIsInternalError(t *testing.T) {
	client := fake.New(sampleRecords()...)
	client.Err = &httpclient.HTTPError{Method: http.MethodGet, Path: "/api/emissions", StatusCode: http.StatusBadGateway}
	h := testRouter(t, client)

	decodeError(t, do(h, http.MethodGet, "/api/emissions/summary", ""), http.StatusInternalServerError)
}

func TestCreateAndUpdatePassthrough(t *testing.T) {
	client := fake.New(sampleRecords()...)
	h := testRouter(t, client)

	rr := do(h, http.MethodPost, "/api/emissions", `{"material_Number":"M9","total_Rounded_KgCO2":4.5}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if client.Calls("Create") != 1 {
		t.Fatalf("create calls=%d", client.Calls("Create"))
	}

	rr = do(h, http.MethodPut, "/api/emissions/material", `{"material_Number":"M1","total_Rounded_KgCO2":9}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(h, http.MethodPut, "/api/emissions/material", `{"material_Number":"NOPE"}`)
	decodeError(t, rr, http.StatusBadGateway)

	decodeError(t, do(h, http.MethodPut, "/api/emissions/material", `{"material_Number":"  "}`), http.StatusBadRequest)
	decodeError(t, do(h, http.MethodPost, "/api/emissions", `{not json`), http.StatusBadRequest)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("bad"), http.StatusBadRequest},
		{domain.NewNotFoundError("missing"), http.StatusNotFound},
		{domain.NewEmptyDataError("empty"), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
		{&httpclient.HTTPError{StatusCode: http.StatusNotFound}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v)=%d want=%d", tc.err, got, tc.want)
		}
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	h := testRouter(t, fake.New())

	req := httptest.NewRequest(http.MethodOptions, "/api/emissions/summary", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin=%q", got)
	}
}

func TestByRangeAcceptsUnescapedPlusOffset(t *testing.T) {
	h := testRouter(t, fake.New(sampleRecords()...))

	// '+' left unescaped in a query string decodes to a space.
	out := decodeRecords(t, do(h, http.MethodGet, "/api/emissions/range?startDate=2024-01-01T02:00:00+02:00&endDate=2024-01-10T02:00:00+02:00", ""))
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}

	out = decodeRecords(t, do(h, http.MethodGet, "/api/emissions/range?startDate=2024-01-01T02:00:00%2B02:00&endDate=2024-01-10T02:00:00%2B02:00", ""))
	if len(out) != 2 {
		t.Fatalf("expected 2 records with escaped offset, got %d", len(out))
	}
}

func TestByRangeInvalidDateExplainsEncoding(t *testing.T) {
	h := testRouter(t, fake.New(sampleRecords()...))

	body := decodeError(t, do(h, http.MethodGet, "/api/emissions/range?startDate=soon&endDate=2024-01-01", ""), http.StatusBadRequest)
	if !strings.Contains(body.Error, "Invalid startDate") || !strings.Contains(body.Error, "%2B") {
		t.Fatalf("error=%q", body.Error)
	}
}
