// Package codec serializes uncertain values, expression documents, and
// evaluation results as JSON.
//
// A document names its input values once and references them from the
// operator tree, so a value used in several places keeps its correlation
// semantics after decoding:
//
//	{
//	  "values": {
//	    "x": {"nominal": 1.0, "sigma_low": 0.5, "sigma_up": 0.3}
//	  },
//	  "expr": {"op": "div", "operands": [
//	    {"ref": "x"},
//	    {"op": "add", "operands": [{"const": 1}, {"ref": "x"}]}
//	  ]}
//	}
//
// No binary compatibility is promised across versions.
package codec
