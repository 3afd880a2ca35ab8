// internal/domain/models/faction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FactionCode is one of the 8 fixed top-level organizational units.
type FactionCode string

const (
	FactionGov      FactionCode = "gov"
	FactionFSB      FactionCode = "fsb"
	FactionGIBDD    FactionCode = "gibdd"
	FactionUMVD     FactionCode = "umvd"
	FactionArmy     FactionCode = "army"
	FactionHospital FactionCode = "hospital"
	FactionSMI      FactionCode = "smi"
	FactionFSIN     FactionCode = "fsin"
)

// AllFactionCodes lists the fixed faction set.
var AllFactionCodes = []FactionCode{
	FactionGov, FactionFSB, FactionGIBDD, FactionUMVD,
	FactionArmy, FactionHospital, FactionSMI, FactionFSIN,
}

// IsValidFactionCode reports whether code names a known faction.
func IsValidFactionCode(code FactionCode) bool {
	for _, c := range AllFactionCodes {
		if code == c {
			return true
		}
	}
	return false
}

// Faction is an immutable reference document: created once at startup,
// never deleted in normal operation.
type Faction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code        FactionCode        `bson:"code" json:"code"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
