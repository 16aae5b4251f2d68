package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

const (
	issLine1 = "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005"
	issLine2 = "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09"
	gpsLine1 = "1 44713U 19074A   24100.50000000  .00001000  00000-0  10000-4 0  9995"
	gpsLine2 = "2 44713  53.0000 200.0000 0001500  90.0000 270.0000 15.06000000    05"
)

const bodiesFixture = `{"bodies":[
	{"id":"terre","englishName":"Earth","bodyType":"Planet","gravity":9.8,"meanRadius":6371.0084,"sideralOrbit":365.256,"mass":{"massValue":5.97237,"massExponent":24}},
	{"id":"lune","englishName":"Moon","bodyType":"Moon","gravity":1.62,"meanRadius":1737},
	{"id":"x","englishName":""}
]}`

// evaluatedAt is one day after the fixture element sets' epoch.
var evaluatedAt = time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

// newUpstream serves the stations and weather TLE groups and the bodies feed.
// Every other category answers 500.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	feeds := map[string]string{
		"stations": "ISS (ZARYA)\n" + issLine1 + "\n" + issLine2 + "\n",
		"weather":  "GPS BIIF-1\n" + gpsLine1 + "\n" + gpsLine2 + "\n",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/bodies") {
			_, _ = w.Write([]byte(bodiesFixture))
			return
		}
		body, ok := feeds[r.URL.Query().Get("GROUP")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupEnv(t *testing.T) {
	t.Helper()
	srv := newUpstream(t)
	t.Setenv("SATTRACK_TLE_URL_TEMPLATE", srv.URL+"/gp.php?GROUP={category}&FORMAT=tle")
	t.Setenv("SATTRACK_TLE_CATEGORIES", "stations,weather,science")
	t.Setenv("SATTRACK_TLE_TIMEOUT", "2s")
	t.Setenv("SATTRACK_BODIES_URL", srv.URL+"/bodies/")
	t.Setenv("SATTRACK_PROP_WORKERS", "2")
	t.Setenv("SATTRACK_PROPERTY_DRIVER", "sqlite")
	t.Setenv("SATTRACK_PROPERTY_DSN", filepath.Join(t.TempDir(), "props.db"))
}

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd(func() time.Time { return evaluatedAt })
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSatellitesTable(t *testing.T) {
	setupEnv(t)

	stdout, stderr, err := executeCLI(t, "satellites")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ISS (ZARYA)")
	assert.Contains(t, stdout, "25544")
	assert.Contains(t, stdout, "Satellites loaded: 2")
	assert.Contains(t, stderr, "unavailable categories: science")
}

func TestSatellitesFilterJSON(t *testing.T) {
	setupEnv(t)

	stdout, _, err := executeCLI(t, "satellites", "--type", "GPS", "-o", "json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)), stdout)

	var out satellitesOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 2, out.Total)
	require.Len(t, out.Satellites, 1)
	assert.Equal(t, "GPS BIIF-1", out.Satellites[0].Name)
	assert.Equal(t, "USA", out.Satellites[0].Country)
	assert.Equal(t, []string{"science"}, out.Report.FailedCategories)
}

func TestSatellitesYAML(t *testing.T) {
	setupEnv(t)

	stdout, _, err := executeCLI(t, "satellites", "--search", "zarya", "-o", "yaml")
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 1, out["count"])
	sats := out["satellites"].([]any)
	assert.Equal(t, "ISS (ZARYA)", sats[0].(map[string]any)["name"])
}

func TestSatellitesRejectsUnknownFormat(t *testing.T) {
	setupEnv(t)

	_, _, err := executeCLI(t, "satellites", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestSatelliteTypesAndShow(t *testing.T) {
	setupEnv(t)

	stdout, _, err := executeCLI(t, "satellites", "types")
	require.NoError(t, err)
	assert.Equal(t, "GPS\nUnknown\n", stdout)

	stdout, _, err = executeCLI(t, "satellites", "show", "ISS (ZARYA)")
	require.NoError(t, err)
	assert.Contains(t, stdout, issLine1)
	assert.Contains(t, stdout, issLine2)

	_, _, err = executeCLI(t, "satellites", "show", "HUBBLE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBodies(t *testing.T) {
	setupEnv(t)

	stdout, _, err := executeCLI(t, "bodies")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Earth")
	assert.Contains(t, stdout, "Moon")
	assert.Contains(t, stdout, "Bodies loaded: 2")

	stdout, _, err = executeCLI(t, "bodies", "--type", "Moon", "-o", "json")
	require.NoError(t, err)
	var out bodiesOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, []string{"Moon", "Planet"}, out.Types)
	assert.Nil(t, out.Bodies[0].MassKg)

	stdout, _, err = executeCLI(t, "bodies", "show", "Earth")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"englishName": "Earth"`)
}

func TestBodiesFeedDown(t *testing.T) {
	setupEnv(t)
	t.Setenv("SATTRACK_BODIES_URL", "http://127.0.0.1:1/bodies/")

	stdout, stderr, err := executeCLI(t, "bodies")
	require.NoError(t, err, "an unavailable feed shows an empty table")
	assert.Contains(t, stdout, "No bodies to show.")
	assert.Contains(t, stderr, "planetary bodies feed unavailable")
}

func TestPropertyLifecycle(t *testing.T) {
	setupEnv(t)

	stdout, _, err := executeCLI(t, "property", "add",
		"--name", "Lake House", "--location", "Pune", "--price", "250000", "--size", "1800")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Property added successfully")
	assert.Contains(t, stdout, "1: Lake House | Pune | $250000 | 1800 sq ft")

	_, _, err = executeCLI(t, "property", "add", "--name", "Shed", "--location", "Goa", "--price", "10", "--size", "80")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, "property", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2: Shed | Goa | $10 | 80 sq ft", lines[1])

	stdout, _, err = executeCLI(t, "property", "delete", lines[0])
	require.NoError(t, err)
	assert.Contains(t, stdout, "Property 1 deleted")

	_, _, err = executeCLI(t, "property", "delete", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "property not found")

	stdout, _, err = executeCLI(t, "property", "list", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"name": "Shed"`)
	assert.NotContains(t, stdout, "Lake House")
}

func TestPropertyAddRequiresAllFields(t *testing.T) {
	setupEnv(t)

	_, _, err := executeCLI(t, "property", "add", "--name", "Half")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all fields must be filled")
	assert.Contains(t, err.Error(), "location, price, size")
}

func TestPropertyDriverFlagOverridesEnv(t *testing.T) {
	setupEnv(t)

	stdout, _, err := executeCLI(t, "--property-driver", "memory", "property", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No properties.")

	_, _, err = executeCLI(t, "--property-driver", "oracle", "property", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown property driver")
}

func writeListings(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	rows := [][]any{
		{"Product Name", "Price", "Rating Value", "Rating Count", "Discount Percentage"},
		{"Alpha 5G", "₹12,999", "4.2 out of 5", "1,024", "18% off"},
		{"Beta Lite", "₹9,999", "unrated", "87", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	_, err := f.NewSheet("Archive")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "listings.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestSheetListAndClean(t *testing.T) {
	setupEnv(t)
	path := writeListings(t)

	stdout, _, err := executeCLI(t, "sheet", "list", path)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1\nArchive\n", stdout)

	stdout, _, err = executeCLI(t, "sheet", "clean", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Price (INR)")
	assert.Contains(t, stdout, "12999")
	assert.Contains(t, stdout, "Price -> Price (INR): 2 parsed, 0 missing")
	assert.Contains(t, stdout, "Rating Value -> Rating: 1 parsed, 1 missing")

	stdout, _, err = executeCLI(t, "sheet", "clean", path, "-o", "json")
	require.NoError(t, err)
	var out struct {
		Sheet   string   `json:"sheet"`
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
		Rules   []struct {
			Target string `json:"target"`
		} `json:"rules"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "Sheet1", out.Sheet)
	assert.Equal(t, []string{
		"Product Name", "Price", "Rating Value", "Rating Count", "Discount Percentage",
		"Price (INR)", "Rating", "Discount (%)",
	}, out.Columns)
	assert.Equal(t, []any{"Alpha 5G", "₹12,999", "4.2 out of 5", 1024.0, "18% off", 12999.0, 4.2, 18.0}, out.Rows[0])
	assert.Nil(t, out.Rows[1][7])
	assert.Len(t, out.Rules, 4)
}

func TestSheetCleanUnknownSheet(t *testing.T) {
	setupEnv(t)
	path := writeListings(t)

	stdout, stderr, err := executeCLI(t, "sheet", "clean", path, "--sheet", "Archive")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No rows.")
	assert.Contains(t, stderr, "no known columns to clean")

	_, _, err = executeCLI(t, "sheet", "clean", path, "--sheet", "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet not found")
}
