package snapshot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
)

const (
	nationJSON = `[
		{"data":"2020-03-14T17:00:00","totale_positivi":17750,"nuovi_positivi":3497,"dimessi_guariti":2335,"deceduti":1441,"totale_casi":21157,"tamponi":109170},
		{"data":"2020-03-15T17:00:00","totale_positivi":20603,"nuovi_positivi":3590,"dimessi_guariti":2749,"deceduti":1809,"totale_casi":24747,"tamponi":124899}
	]`
	regionsJSON = `[
		{"data":"2020-03-15T17:00:00","codice_regione":3,"denominazione_regione":"Lombardia","totale_positivi":10043,"nuovi_positivi":1587,"totale_casi":14859},
		{"data":"2020-03-15T17:00:00","codice_regione":12,"denominazione_regione":"Lazio","totale_positivi":562,"nuovi_positivi":134,"totale_casi":657}
	]`
	provincesJSON = `[
		{"data":"2020-03-15T17:00:00","codice_regione":3,"denominazione_regione":"Lombardia","codice_provincia":15,"denominazione_provincia":"Milano","sigla_provincia":"MI","totale_casi":2644}
	]`
)

func testServer(t *testing.T, nation, regions, provinces string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/nation.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(nation))
	})
	mux.HandleFunc("/regions.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(regions))
	})
	mux.HandleFunc("/provinces.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(provinces))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func serviceFor(srv *httptest.Server) *Service {
	return NewService(Sources{
		NationURL:    srv.URL + "/nation.json",
		RegionsURL:   srv.URL + "/regions.json",
		ProvincesURL: srv.URL + "/provinces.json",
	})
}

func TestLoad(t *testing.T) {
	srv := testServer(t, nationJSON, regionsJSON, provincesJSON)
	svc := serviceFor(srv)

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(snap.Nation) != 2 || len(snap.Regions) != 2 || len(snap.Provinces) != 1 {
		t.Fatalf("unexpected record counts: %d/%d/%d", len(snap.Nation), len(snap.Regions), len(snap.Provinces))
	}
	if snap.Fingerprint == "" {
		t.Fatal("fingerprint should be set")
	}
	if snap.Nation[1].TotalCases != 24747 {
		t.Fatalf("unexpected nation record: %+v", snap.Nation[1])
	}
	if snap.Regions[0].RegionName != "Lombardia" {
		t.Fatalf("unexpected region record: %+v", snap.Regions[0])
	}
	if snap.Provinces[0].ProvinceAbbr != "MI" {
		t.Fatalf("unexpected province record: %+v", snap.Provinces[0])
	}

	reportDate, err := snap.ReportDate()
	if err != nil {
		t.Fatal(err)
	}
	if reportDate.Day() != 15 {
		t.Fatalf("report date should come from the last nation record, got %v", reportDate)
	}
}

func TestLoad_FingerprintTracksContent(t *testing.T) {
	srv1 := testServer(t, nationJSON, regionsJSON, provincesJSON)
	snap1, err := serviceFor(srv1).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	snap2, err := serviceFor(srv1).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap1.Fingerprint != snap2.Fingerprint {
		t.Fatal("identical content should produce identical fingerprints")
	}

	changed := `[{"data":"2020-03-16T17:00:00","totale_positivi":23073,"nuovi_positivi":3233,"totale_casi":27980}]`
	srv2 := testServer(t, changed, regionsJSON, provincesJSON)
	snap3, err := serviceFor(srv2).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap3.Fingerprint == snap1.Fingerprint {
		t.Fatal("changed content should change the fingerprint")
	}
}

func TestLoad_StripsBOM(t *testing.T) {
	srv := testServer(t, "\xEF\xBB\xBF"+nationJSON, regionsJSON, provincesJSON)
	snap, err := serviceFor(srv).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Nation) != 2 {
		t.Fatalf("BOM-prefixed payload should still parse, got %d records", len(snap.Nation))
	}
}

func TestLoad_BadDate(t *testing.T) {
	bad := `[{"data":"not a date","totale_casi":1}]`
	srv := testServer(t, bad, regionsJSON, provincesJSON)

	_, err := serviceFor(srv).Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, constants.ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", err)
	}
}

func TestLoad_MissingRequiredField(t *testing.T) {
	// A region row without its name fails validation.
	bad := `[{"data":"2020-03-15T17:00:00","totale_casi":657}]`
	srv := testServer(t, nationJSON, bad, provincesJSON)

	_, err := serviceFor(srv).Load(context.Background())
	if !errors.Is(err, constants.ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", err)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	srv := testServer(t, "{not json", regionsJSON, provincesJSON)

	_, err := serviceFor(srv).Load(context.Background())
	if !errors.Is(err, constants.ErrDataFormat) {
		t.Fatalf("expected ErrDataFormat, got %v", err)
	}
}
