package auth

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/matiasbn/dj-wizard/internal/logger"
)

// pageDimensions returns the viewport size. ok is false when the page
// cannot be evaluated.
func (s *ServiceImpl) pageDimensions() (width, height int, ok bool) {
	eval, err := s.page.Eval(`() => ({width: window.innerWidth, height: window.innerHeight})`)
	if err != nil {
		return 0, 0, false
	}

	dims := eval.Value.Map()
	width = int(dims["width"].Num())
	height = int(dims["height"].Num())

	return width, height, width > 0 && height > 0
}

// simulateHumanBehavior performs random mouse movements and scrolling so the
// polling loop doesn't look like a bot parked on the page.
func (s *ServiceImpl) simulateHumanBehavior(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf(ctx, "simulateHumanBehavior panic recovered: %v", r)
		}
	}()

	maxX, maxY, ok := s.pageDimensions()
	if !ok {
		return
	}

	// Perform random mouse movements.
	for range cursorMovesPerPoll {
		//nolint:gosec // Weak random is fine for simulating human behavior.
		x := rand.IntN(maxX)
		//nolint:gosec // Weak random is fine for simulating human behavior.
		y := rand.IntN(maxY)

		s.page.Mouse.MustMoveTo(float64(x), float64(y))

		delayRange := int(cursorMoveMaxDelay - cursorMoveMinDelay)
		//nolint:gosec // Weak random is fine for simulating human behavior.
		time.Sleep(time.Duration(rand.IntN(delayRange)) + cursorMoveMinDelay)
	}

	// Occasionally scroll a bit.
	//nolint:gosec // Weak random is fine for simulating human behavior.
	if rand.IntN(scrollChance) == 0 {
		//nolint:gosec // Weak random is fine for simulating human behavior.
		scrollAmount := rand.IntN(scrollSpan) + scrollFloor
		s.page.Mouse.MustScroll(0, float64(scrollAmount))
	}
}

// randomHumanDelay sleeps for a random duration to simulate human timing.
func randomHumanDelay() {
	//nolint:gosec // Weak random is fine for simulating human behavior.
	delay := time.Duration(rand.Int64N(int64(idleMaxDelay-idleMinDelay))) + idleMinDelay
	time.Sleep(delay)
}

// simulateRandomPageInteraction performs one random, harmless page interaction.
func (s *ServiceImpl) simulateRandomPageInteraction(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf(ctx, "simulateRandomPageInteraction panic recovered: %v", r)
		}
	}()

	//nolint:gosec // Weak random is fine for simulating human behavior.
	switch rand.IntN(interactionKinds) {
	case 0:
		// Small random scroll.
		//nolint:gosec // Weak random is fine for simulating human behavior.
		scrollDelta := float64(rand.IntN(nudgeSpan) - nudgeOffset)
		s.page.Mouse.MustScroll(0, scrollDelta)
	case 1:
		// Pause (humans don't move constantly).
		pauseRange := int(readPauseMax - readPauseMin)
		//nolint:gosec // Weak random is fine for simulating human behavior.
		time.Sleep(time.Duration(rand.IntN(pauseRange)) + readPauseMin)
	default:
		// Move the cursor somewhere else on the page.
		maxX, maxY, ok := s.pageDimensions()
		if !ok {
			return
		}

		//nolint:gosec // Weak random is fine for simulating human behavior.
		x := float64(rand.IntN(maxX))
		//nolint:gosec // Weak random is fine for simulating human behavior.
		y := float64(rand.IntN(maxY))
		s.page.Mouse.MustMoveTo(x, y)
	}
}
