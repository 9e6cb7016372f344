package record

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/sync/errgroup"

	"iffidb/internal/audit"
)

// DefaultSampleSize is how many records GenerateSample seeds by default.
const DefaultSampleSize = 10

// Fixed word lists the sample generator draws from.
var (
	sampleFirstNames = []string{"John", "Jane", "Ali", "Sara", "Mike", "Emily", "David", "Zara"}
	sampleLastNames  = []string{"Doe", "Smith", "Khan", "Baloch", "Taylor", "Wilson", "Brown", "Ahmed"}
	sampleCities     = []string{"New York", "London", "Karachi", "Lahore", "Dubai", "Toronto"}
)

// GenerateSample creates n records (DefaultSampleSize when n <= 0) from
// randomized combinations of the fixed word lists, waits for all creations,
// then writes one SYSTEM audit entry summarizing the batch and publishes.
func (s *Service) GenerateSample(ctx context.Context, n int) error {
	if n <= 0 {
		n = DefaultSampleSize
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := s.Create(ctx, sampleFields())
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("sample generation failed: %w", err)
	}

	s.audit.Append(audit.ActionSystem, fmt.Sprintf("Generated %d sample records.", n))
	s.notifier.Publish()
	return nil
}

func sampleFields() Fields {
	first := sampleFirstNames[rand.Intn(len(sampleFirstNames))]
	last := sampleLastNames[rand.Intn(len(sampleLastNames))]
	city := sampleCities[rand.Intn(len(sampleCities))]

	return Fields{
		Name:    fmt.Sprintf("%s %s", first, last),
		Email:   fmt.Sprintf("%s.%s@example.com", strings.ToLower(first), strings.ToLower(last)),
		Phone:   fmt.Sprintf("+92 3%d %d", rand.Intn(900)+100, rand.Intn(9000000)),
		Address: fmt.Sprintf("%d St, %s", rand.Intn(100), city),
	}
}
