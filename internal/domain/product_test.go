package domain

import (
	"errors"
	"testing"
)

func TestFilterOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    FilterOptions
		wantErr bool
	}{
		{"defaults", DefaultFilterOptions(), false},
		{"empty mode", FilterOptions{}, false},
		{"unknown mode", FilterOptions{Mode: "cheapest"}, true},
		{"price range", FilterOptions{Mode: FilterModePriceRange, MinPrice: 10, MaxPrice: 20}, false},
		{"single price", FilterOptions{Mode: FilterModePriceRange, MinPrice: 20, MaxPrice: 20}, false},
		{"inverted price range", FilterOptions{Mode: FilterModePriceRange, MinPrice: 50, MaxPrice: 10}, true},
		{"negative min price", FilterOptions{Mode: FilterModePriceRange, MinPrice: -1, MaxPrice: 10}, true},
		{"bounds ignored without mode", FilterOptions{Mode: FilterModeNone, MinPrice: 150, MaxPrice: 100}, false},
		{"bounds ignored for top rated", FilterOptions{Mode: FilterModeTopRated, MinPrice: -5, MaxPrice: -10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Validate() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestBrowseRequest_Validate(t *testing.T) {
	ok := BrowseRequest{Query: "jar", Options: FilterOptions{Mode: FilterModeNone, MinPrice: 150, MaxPrice: 100}}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	bad := BrowseRequest{Query: "jar", Options: FilterOptions{Mode: FilterModePriceRange, MinPrice: 150, MaxPrice: 100}}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Validate() error = %v, want ErrInvalidRequest", err)
	}

	tooMany := BrowseRequest{Query: "jar", N: 101}
	if err := tooMany.Validate(); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Validate() error = %v, want ErrInvalidRequest", err)
	}
}
