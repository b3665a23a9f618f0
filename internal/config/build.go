package config

import "fmt"

var (
	DistributionCommit  = "dev"
	DistributionVersion = "0.0.0"
)

func GetVersion() string {
	return fmt.Sprintf("%s-%s", DistributionVersion, DistributionCommit)
}
