package httputil_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/sidereal/pkg/httputil"
)

func ExampleCache() {
	dir := filepath.Join(os.TempDir(), "sidereal-example")
	cache, err := httputil.NewCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer os.RemoveAll(dir)

	remote := cache.Namespace("remote:")
	if err := remote.Set("/v1/ayanamsa?jd=2451545", map[string]float64{"ayanamsa": 23.857}); err != nil {
		fmt.Println("Error:", err)
		return
	}

	var result map[string]float64
	if ok, err := remote.Get("/v1/ayanamsa?jd=2451545", &result); ok && err == nil {
		fmt.Println("Ayanamsa:", result["ayanamsa"])
	}
	// Output:
	// Ayanamsa: 23.857
}

func ExampleCache_miss() {
	dir := filepath.Join(os.TempDir(), "sidereal-example-miss")
	cache, _ := httputil.NewCache(dir, time.Hour)
	defer os.RemoveAll(dir)

	var result string
	ok, err := cache.Get("nonexistent", &result)
	fmt.Println("Found:", ok)
	fmt.Println("Error:", err)
	// Output:
	// Found: false
	// Error: <nil>
}
