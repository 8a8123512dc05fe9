package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/solenoid.go/pkg/l1"
)

func TestNewEnvWithoutMQTT(t *testing.T) {
	conf := NewConfig()
	conf.MQTTBrokerURL = ""
	conf.Info.Ref.ID = "bench"
	e, err := conf.NewEnv()
	require.NoError(t, err)
	require.Nil(t, e.Reporter)
	require.Nil(t, e.Transport)
	require.Nil(t, e.Observer())

	conf.MQTTCommands = true
	_, err = conf.NewEnv()
	require.Error(t, err)
}

func TestNewEnvWithMQTT(t *testing.T) {
	conf := NewConfig()
	conf.MQTTBrokerURL = "mqtt://localhost:1883/lab/"
	conf.MQTTCommands = true
	conf.Info.Ref.ID = ""
	e, err := conf.NewEnv()
	require.NoError(t, err)
	require.NotEmpty(t, conf.Info.Ref.ID)
	require.Equal(t, l1.DefaultControllerType, e.Reporter.Info.Ref.Type)
	require.Equal(t, "lab/", e.Reporter.Queue.TopicPrefix)
	require.Equal(t, conf.Info.Ref.Topic(l1.ChannelCmd), e.Transport.Topic)
	require.NotNil(t, e.Observer())
}
