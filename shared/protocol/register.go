package protocol

import (
	"github.com/leap-fish/necs/esync"
	"github.com/tracerfps/tracer/shared/netcomponents"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetPosition uint = 10
	SyncIDNetRotation uint = 11
	SyncIDNetHealth   uint = 12
	SyncIDNetPlayer   uint = 13
	SyncIDNetEnemy    uint = 14
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetPosition uint8 = 10
	InterpIDNetRotation uint8 = 11
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	// Register with interpolation for smooth client-side rendering
	if err := esync.RegisterComponent(
		SyncIDNetPosition,
		netcomponents.NetPositionData{},
		netcomponents.NetPosition,
		esync.WithInterpFn(InterpIDNetPosition, netcomponents.LerpNetPosition),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetRotation,
		netcomponents.NetRotationData{},
		netcomponents.NetRotation,
		esync.WithInterpFn(InterpIDNetRotation, netcomponents.LerpNetRotation),
	); err != nil {
		return err
	}

	// Health and identity: no interpolation (discrete values)
	if err := esync.RegisterComponent(
		SyncIDNetHealth,
		netcomponents.NetHealthData{},
		netcomponents.NetHealth,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetPlayer,
		netcomponents.NetPlayerData{},
		netcomponents.NetPlayer,
	); err != nil {
		return err
	}

	return esync.RegisterComponent(
		SyncIDNetEnemy,
		netcomponents.NetEnemyData{},
		netcomponents.NetEnemy,
	)
}
