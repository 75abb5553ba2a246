package game

import (
	"math"
	"time"
)

// baseScores maps word length to points before multipliers. Lengths past the
// table add extraLetterPoints per letter.
var baseScores = map[int]int{3: 10, 4: 20, 5: 35, 6: 50, 7: 70, 8: 95}

const (
	extraLetterPoints = 30
	maxTableLength    = 8

	doublePointsMultiplier = 2.0
)

// BaseScore returns the points for a word of the given length. It is strictly
// increasing in length.
func BaseScore(length int) int {
	switch {
	case length <= 0:
		return 0
	case length < 3:
		return 3 * length
	case length <= maxTableLength:
		return baseScores[length]
	default:
		return baseScores[maxTableLength] + (length-maxTableLength)*extraLetterPoints
	}
}

// ScoreWord combines the base score with the combo and power-up multipliers.
func ScoreWord(length int, comboMultiplier, powerUpMultiplier float64) int {
	return int(math.Round(float64(BaseScore(length)) * comboMultiplier * powerUpMultiplier))
}

// PowerUpMultiplier is 2 while double points is active, otherwise 1.
func PowerUpMultiplier(effects *EffectManager, now time.Time) float64 {
	if effects.IsActive(PowerUpDoublePoints, now) {
		return doublePointsMultiplier
	}
	return 1
}
