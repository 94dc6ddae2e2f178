package config

import (
	"slices"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "CACHE_TTL_SECONDS", "CORS_ALLOWED_ORIGINS", "DEFAULT_PAGE_SIZE", "MAX_PAGE_SIZE"} {
		t.Setenv(key, "")
	}
	// Empty numeric values fall back to defaults.
	cfg := FromEnv()
	if cfg.CacheTTL != 600*time.Second {
		t.Fatalf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.DefaultPageSize != 10 || cfg.MaxPageSize != 100 {
		t.Fatalf("page sizes = %d/%d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("empty CORS_ALLOWED_ORIGINS must yield no origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "cortex")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("DEFAULT_PAGE_SIZE", "500")
	t.Setenv("MAX_PAGE_SIZE", "50")

	cfg := FromEnv()

	if want := "host=db port=6543 user=cortex password=p@ss dbname=catalog sslmode=require"; cfg.DBConnStr != want {
		t.Fatalf("DBConnStr = %q", cfg.DBConnStr)
	}
	if want := "postgres://cortex:p%40ss@db:6543/catalog?sslmode=require"; cfg.DBURL != want {
		t.Fatalf("DBURL = %q", cfg.DBURL)
	}
	if !slices.Equal(cfg.CORSAllowedOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MaxPageSize != 50 || cfg.DefaultPageSize != 10 {
		t.Fatalf("page sizes = %d/%d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}
}

func TestFromEnvMediaSettings(t *testing.T) {
	t.Setenv("GCS_BUCKET_NAME", "cortex-media")
	t.Setenv("MEDIA_CDN_DOMAIN", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/etc/gcp/key.json")

	cfg := FromEnv()
	if cfg.GCSBucketName != "cortex-media" || cfg.MediaCDNDomain != "" {
		t.Fatalf("media config = %q/%q", cfg.GCSBucketName, cfg.MediaCDNDomain)
	}
	if cfg.GCPCredentials != "/etc/gcp/key.json" {
		t.Fatalf("GCPCredentials = %q", cfg.GCPCredentials)
	}
}
