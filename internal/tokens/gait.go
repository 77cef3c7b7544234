package tokens

// GaitType is the closed set of gait kinds usable in a GAIT token's
// first field (§3 GaitToken; supplemented from original_source's
// gait.rs, which models GAIT:<type>:<name>:<max_speed>:<energy_use>
// [:flags...]).
type GaitType string

const (
	GaitWalk   GaitType = "WALK"
	GaitCrutch GaitType = "CRUTCH"
	GaitSwim   GaitType = "SWIM"
	GaitFly    GaitType = "FLY"
	GaitCrawl  GaitType = "CRAWL"
)

// GaitFlag is a closed set of optional trailing gait modifiers.
type GaitFlag string

const (
	GaitFlagNoBuildUp   GaitFlag = "NO_BUILD_UP"
	GaitFlagLayersSlow  GaitFlag = "LAYERS_SLOW"
	GaitFlagLaunchSlow  GaitFlag = "LAUNCHES_SLOW"
)

// Gait is a single parsed GAIT token (§3 GaitToken).
//
//	GAIT:WALK:Jog:300:NO_BUILD_UP:5
//
// decomposes into Type=WALK, Name="Jog", MaxSpeed=300,
// Flags=[NO_BUILD_UP], BuildUpTime=5. MaxSpeed/BuildUpTime use the
// NONE sentinel (§4.2): a literal "NONE" field parses to 0.
type Gait struct {
	Type        GaitType
	Name        string
	MaxSpeed    int
	Flags       []GaitFlag
	BuildUpTime int
}
