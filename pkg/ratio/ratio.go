/*
Package ratio computes the phage-to-host depth ratio for each phage region
of a sample, along with quality and activity calls.
*/
package ratio

import (
	"bufio"
	"io"
	"math"
	"strconv"

	"github.com/phage-dynamics/ptoh/pkg/region"
)

// Record is one row of the PtoH table. PtoH is NaN when the host baseline
// is zero, and is written as "NA".
type Record struct {
	SampleID   string
	PhageID    string
	Contig     string
	Start      int
	Stop       int
	Total      int
	Per        float64
	MedianOfMG float64
	PtoH       float64
	Quality    string
	Activity   string
}

// quality flags ratios backed by shallow sequencing on either side
func quality(per, medianMG float64) string {
	if per < 10 || medianMG < 10 {
		return "low"
	}
	return "high"
}

// activity calls a phage region active when its depth clearly exceeds the
// host baseline
func activity(ptoh float64) string {
	switch {
	case math.IsNaN(ptoh):
		return "undefined"
	case ptoh >= 1.5:
		return "active"
	case ptoh < 1:
		return "inactive"
	default:
		return "low"
	}
}

// Calculate derives one PtoH record per phage region, normalizing each
// region's per-base depth by the sample's host baseline. A zero baseline
// yields an undefined (NaN) ratio, never zero or an error.
func Calculate(phage []region.PhageCount, host region.HostCount) []Record {

	records := make([]Record, 0, len(phage))

	for _, pc := range phage {
		ptoh := math.NaN()
		if host.MedianOfMG != 0 {
			ptoh = pc.Per / host.MedianOfMG
		}

		records = append(records, Record{
			SampleID:   host.SampleID,
			PhageID:    pc.PhageID,
			Contig:     pc.Contig,
			Start:      pc.Start,
			Stop:       pc.Stop,
			Total:      pc.Total,
			Per:        pc.Per,
			MedianOfMG: host.MedianOfMG,
			PtoH:       ptoh,
			Quality:    quality(pc.Per, host.MedianOfMG),
			Activity:   activity(ptoh),
		})
	}

	return records
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NA"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Write writes the PtoH table
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("Sample_ID\tPhage_Id\tChromosome\tStart\tStop\tTotal_Counts\tPer_Counts\tMedian_of_MG\tPtoH\tQuality\tActivity\n"); err != nil {
		return err
	}

	for _, r := range records {
		_, err := bw.WriteString(r.SampleID + "\t" +
			r.PhageID + "\t" +
			r.Contig + "\t" +
			strconv.Itoa(r.Start) + "\t" +
			strconv.Itoa(r.Stop) + "\t" +
			strconv.Itoa(r.Total) + "\t" +
			formatFloat(r.Per) + "\t" +
			formatFloat(r.MedianOfMG) + "\t" +
			formatFloat(r.PtoH) + "\t" +
			r.Quality + "\t" +
			r.Activity + "\n")
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}
