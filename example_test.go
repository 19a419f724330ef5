package promhist_test

import (
	"fmt"

	"github.com/ygrebnov/promhist"
)

func Example() {
	facade := promhist.NewFacade(promhist.NewRegistry())

	if err := facade.AddHistogram("request_seconds", "request latency", []float64{0.1, 0.5, 1}); err != nil {
		panic(err)
	}
	if err := facade.ObserveHistogram("request_seconds", []promhist.Label{{Name: "method", Value: "GET"}}, 0.25); err != nil {
		panic(err)
	}

	out, err := facade.Encode()
	if err != nil {
		panic(err)
	}
	fmt.Print(out)
	// Output:
	// # HELP request_seconds request latency
	// # TYPE request_seconds histogram
	// request_seconds_bucket{method="GET",le="0.1"} 0
	// request_seconds_bucket{method="GET",le="0.5"} 1
	// request_seconds_bucket{method="GET",le="1"} 1
	// request_seconds_bucket{method="GET",le="+Inf"} 1
	// request_seconds_sum{method="GET"} 0.25
	// request_seconds_count{method="GET"} 1
}
