package aggregate_test

import (
	"testing"

	"github.com/okian/atlas/internal/domain/aggregate"
	"github.com/okian/atlas/internal/domain/model"
	"github.com/okian/atlas/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const year = model.DefaultYear

func row(sectorID, regionID string, y int) model.SectorMetric {
	return model.SectorMetric{SectorID: sectorID, RegionID: regionID, Year: y}
}

func TestSector(t *testing.T) {
	Convey("Given metric rows for several sectors", t, func() {
		a := row("s1", "r1", year)
		a.AIAdoptionRate = model.Ptr(60.0)
		b := row("s1", "r2", year)
		b.AIAdoptionRate = model.Ptr(70.0)
		c := row("s1", "r3", year)
		c.AIAdoptionRate = model.Ptr(80.0)
		other := row("s2", "r1", year)
		other.AIAdoptionRate = model.Ptr(5.0)
		rows := []model.SectorMetric{a, b, c, other}

		Convey("When aggregating a sector", func() {
			agg := aggregate.Sector(rows, "s1", year)

			Convey("Then percentage fields are the rounded mean", func() {
				So(agg, ShouldNotBeNil)
				So(agg.Rows, ShouldEqual, 3)
				So(agg.AIAdoptionRate, ShouldEqual, 70)
				So(agg.SectorID, ShouldEqual, "s1")
				So(agg.Year, ShouldEqual, year)
			})

			Convey("And fields without any value average to 0", func() {
				So(agg.StabilityScore, ShouldEqual, 0)
				So(agg.TalentDensity, ShouldEqual, 0)
			})
		})

		Convey("When the sector has no rows", func() {
			So(aggregate.Sector(rows, "missing", year), ShouldBeNil)
			So(aggregate.Sector(nil, "s1", year), ShouldBeNil)
			So(aggregate.Sector([]model.SectorMetric{}, "s1", year), ShouldBeNil)
		})
	})

	Convey("Given rows with nil values", t, func() {
		a := row("s1", "r1", year)
		a.UnmetNeedIndex = model.Ptr(90.0)
		a.CapitalInflowUSD = model.Ptr(1e9)
		a.AIDeployments = model.Ptr(int64(120))
		b := row("s1", "r2", year)
		b.UnmetNeedIndex = nil
		b.CapitalInflowUSD = nil
		b.AIDeployments = model.Ptr(int64(30))
		c := row("s1", "r3", year)
		c.UnmetNeedIndex = model.Ptr(71.0)
		c.CapitalInflowUSD = model.Ptr(2.5e9)

		agg := aggregate.Sector([]model.SectorMetric{a, b, c}, "s1", year)

		Convey("Then nils are excluded from averages, not treated as zero", func() {
			// (90+71)/2 = 80.5 -> 81
			So(agg.UnmetNeedIndex, ShouldEqual, 81)
		})

		Convey("And summed fields treat nil as zero", func() {
			So(agg.CapitalInflow, ShouldEqual, 3.5e9)
			So(agg.TotalDeployments, ShouldEqual, 150)
		})
	})

	Convey("Given rows from different years", t, func() {
		cur := row("s1", "r1", year)
		cur.AIMaturityScore = model.Ptr(40.0)
		cur.CapitalInflowUSD = model.Ptr(1e9)
		old := row("s1", "r1", year-1)
		old.AIMaturityScore = model.Ptr(90.0)
		old.CapitalInflowUSD = model.Ptr(9e9)

		Convey("Then only the requested year is aggregated", func() {
			agg := aggregate.Sector([]model.SectorMetric{cur, old}, "s1", year)
			So(agg.Rows, ShouldEqual, 1)
			So(agg.StabilityScore, ShouldEqual, 40)
			So(agg.CapitalInflow, ShouldEqual, 1e9)
		})

		Convey("And a year with no rows is no data", func() {
			So(aggregate.Sector([]model.SectorMetric{cur, old}, "s1", year+1), ShouldBeNil)
		})
	})

	Convey("Given the two-region healthcare scenario", t, func() {
		a := row("health", "r1", year)
		a.UnmetNeedIndex = model.Ptr(78.0)
		a.InfrastructureGap = model.Ptr(40.0)
		a.CapitalInflowUSD = model.Ptr(2e9)
		a.AIMaturityScore = model.Ptr(62.0)
		b := row("health", "r2", year)
		b.UnmetNeedIndex = model.Ptr(82.0)
		b.InfrastructureGap = model.Ptr(50.0)
		b.CapitalInflowUSD = model.Ptr(1e9)
		b.AIMaturityScore = model.Ptr(58.0)

		agg := aggregate.Sector([]model.SectorMetric{a, b}, "health", year)

		Convey("Then the aggregate matches the documented values", func() {
			So(agg.UnmetNeedIndex, ShouldEqual, 80)
			So(agg.InfrastructureGap, ShouldEqual, 45)
			So(agg.CapitalInflow, ShouldEqual, 3e9)
			So(agg.StabilityScore, ShouldEqual, 60)
		})

		Convey("And the opportunity score is deterministic", func() {
			opp := scoring.NewScorer().Opportunity(scoring.OpportunityInput{
				UnmetNeed:         agg.UnmetNeedIndex,
				InfrastructureGap: agg.InfrastructureGap,
				CapitalInflowUSD:  agg.CapitalInflow,
				Stability:         agg.StabilityScore,
			})
			So(opp.Score, ShouldEqual, 73)
		})

		Convey("And permuting the rows changes nothing", func() {
			swapped := aggregate.Sector([]model.SectorMetric{b, a}, "health", year)
			So(swapped, ShouldResemble, agg)
		})
	})

	Convey("Given growth rates", t, func() {
		a := row("s1", "r1", year)
		a.CapitalGrowthRate = model.Ptr(-3.0)
		b := row("s1", "r2", year)
		b.CapitalGrowthRate = model.Ptr(4.0)

		agg := aggregate.Sector([]model.SectorMetric{a, b}, "s1", year)
		So(agg.CapitalGrowthRate, ShouldEqual, 0.5)
		So(scoring.TrendOf(agg.CapitalGrowthRate), ShouldEqual, scoring.TrendStable)
	})

	Convey("Given a row with values outside 0-100", t, func() {
		a := row("s1", "r1", year)
		a.UnmetNeedIndex = model.Ptr(140.0)
		a.InfrastructureGap = model.Ptr(130.0)
		a.AIMaturityScore = model.Ptr(125.0)
		a.AIAdoptionRate = model.Ptr(-12.0)
		a.CapitalInflowUSD = model.Ptr(7e11)
		a.AIDeployments = model.Ptr(int64(250000))
		a.CapitalGrowthRate = model.Ptr(180.0)

		agg := aggregate.Sector([]model.SectorMetric{a}, "s1", year)

		Convey("Then percentage fields are clamped", func() {
			So(agg.UnmetNeedIndex, ShouldEqual, 100)
			So(agg.InfrastructureGap, ShouldEqual, 100)
			So(agg.StabilityScore, ShouldEqual, 100)
			So(agg.AIAdoptionRate, ShouldEqual, 0)
		})

		Convey("Then sums and the growth rate are kept raw", func() {
			So(agg.CapitalInflow, ShouldEqual, 7e11)
			So(agg.TotalDeployments, ShouldEqual, 250000)
			So(agg.CapitalGrowthRate, ShouldEqual, 180.0)
		})
	})
}
