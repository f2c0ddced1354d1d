package config

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
)

func TestLoad_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Production() {
		t.Fatal("default context should not be production")
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.NationURL == "" || cfg.RegionsURL == "" || cfg.ProvincesURL == "" {
		t.Fatal("source URLs should have defaults")
	}
	if cfg.RefreshSchedule == "" || cfg.WeeklySchedule == "" {
		t.Fatal("schedules should have defaults")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set(constants.ViperContext, "Production")
	viper.Set(constants.ViperListenAddr, ":9999")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Production() {
		t.Fatal("context override should make Production() true")
	}
	if cfg.ListenAddr != ":9999" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr)
	}
}
