package aggregate_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/grandseiken/wiispace-board/internal/domain/aggregate"
	"github.com/grandseiken/wiispace-board/internal/domain/category"
)

type cell struct {
	mode    category.Mode
	players int
}

// bestTable serves canned per-cell bests and counts how often each cell
// is consulted.
type bestTable struct {
	bests map[cell]int64
	calls map[cell]int
	err   error
}

func newBestTable(bests map[cell]int64) *bestTable {
	return &bestTable{bests: bests, calls: make(map[cell]int)}
}

func (b *bestTable) BestScore(_ context.Context, _ int64, mode category.Mode, players int) (int64, bool, error) {
	if b.err != nil {
		return 0, false, b.err
	}
	c := cell{mode, players}
	b.calls[c]++
	best, ok := b.bests[c]
	return best, ok, nil
}

func TestTotal(t *testing.T) {
	Convey("Given a totaler over per-cell bests", t, func() {
		Convey("When the account has bests in several cells", func() {
			table := newBestTable(map[cell]int64{
				{category.ModeNormal, 1}:  1000,
				{category.ModeNormal, 2}:  2500,
				{category.ModeHard, 1}:    400,
				{category.ModeSpecial, 4}: 77,
			})
			totaler := aggregate.NewTotaler(table)

			total, err := totaler.Total(context.Background(), 1)

			Convey("Then the total is the sum over every populated cell", func() {
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 3977)
			})

			Convey("Then every point-scored cell is consulted exactly once", func() {
				So(len(table.calls), ShouldEqual, 16)
				for c, n := range table.calls {
					So(n, ShouldEqual, 1)
					So(c.mode.TimeBased(), ShouldBeFalse)
				}
			})
		})

		Convey("When the account also holds time-based records", func() {
			table := newBestTable(map[cell]int64{
				{category.ModeNormal, 1}: 1000,
				{category.ModeBoss, 1}:   5400,
			})
			totaler := aggregate.NewTotaler(table)

			total, err := totaler.Total(context.Background(), 1)

			Convey("Then time-based bests never contribute", func() {
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 1000)
			})
		})

		Convey("When the account has no records at all", func() {
			totaler := aggregate.NewTotaler(newBestTable(nil))

			total, err := totaler.Total(context.Background(), 1)
			So(err, ShouldBeNil)
			So(total, ShouldEqual, 0)
		})

		Convey("When recomputing twice", func() {
			table := newBestTable(map[cell]int64{{category.ModeFast, 3}: 123})
			totaler := aggregate.NewTotaler(table)

			first, err := totaler.Total(context.Background(), 1)
			So(err, ShouldBeNil)
			second, err := totaler.Total(context.Background(), 1)
			So(err, ShouldBeNil)

			Convey("Then the result is stable", func() {
				So(second, ShouldEqual, first)
			})
		})

		Convey("When a cell lookup fails", func() {
			boom := errors.New("store down")
			totaler := aggregate.NewTotaler(&bestTable{err: boom})

			_, err := totaler.Total(context.Background(), 1)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}
