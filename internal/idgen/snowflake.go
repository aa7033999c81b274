package idgen

import (
	"fmt"
	"log"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func Init(nodeID int64) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		log.Fatalf("snowflake init failed: %v", err)
	}
	node = n
}

func New() uint64 {
	if node == nil {
		Init(1)
	}
	return uint64(node.Generate().Int64())
}

// OrderID builds a merchant order identifier in the <slug>_<random> shape the
// payment memo round-trips. The snowflake suffix carries both the timestamp
// and the per-node entropy.
func OrderID(slug string) string {
	if slug == "" {
		slug = "order"
	}
	return fmt.Sprintf("%s_%d", slug, New())
}
