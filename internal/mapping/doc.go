// Package mapping loads engine profiles from YAML.
//
// A mapping file names types and transform functions that the program registers in a
// Registry, so rules can be reviewed and changed without recompiling.
//
// # Schema Overview
//
//	version: "1"
//	profiles:
//	  - name: orders
//	    mappings:
//	      - source: store.Order
//	        target: warehouse.Order
//	        # Simplified 1:1 mappings, source path: target field (highest priority)
//	        121:
//	          Customer.Email: CustomerEmail
//	        # Full field mappings
//	        fields:
//	          - target: Status
//	            default: "pending"
//	          - target: TotalAmount
//	            source: TotalCents
//	            transform: CentsToAmount
//	        # Fields left untouched
//	        ignore:
//	          - Notes
//	        # Derived pairs handled by this rule
//	        include:
//	          - store.GiftOrder -> warehouse.GiftOrder
//	        after: [StampOrder]
//	        reverse: false
//	# Mappings outside a profile belong to the "default" profile.
//	mappings: []
//	transforms:
//	  - name: CentsToAmount
//	    source_type: int64
//	    target_type: float64
//
// # Priority Order
//
// When several entries name the same target field:
//  1. "121" shorthand mappings (highest)
//  2. "fields" explicit mappings
//  3. "ignore" list
//
// # Transforms
//
// A transform is a registered function of one argument. With a source path it receives the
// value at that path, without one it receives the whole source. Declared source and target
// types are checked against the registered function. Transforms may also construct the
// destination ("construct") or run after mapping ("after", receiving the source and a pointer
// to the destination).
package mapping
