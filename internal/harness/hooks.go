// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package harness

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"golang.org/x/benchsweep/matrix"
	"golang.org/x/benchsweep/runner"
)

// CustomHooks decode the string forms of the sweep's enumerations.
// Passing a DecodeHook to viper replaces its default hooks, so the
// duration and slice hooks are repeated here.
var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		BuildFailurePolicyHookFunc(),
		ResumePolicyHookFunc(),
		NamingHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)),
}

func BuildFailurePolicyHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(runner.Continue) {
			return data, nil
		}
		return runner.ParseBuildFailurePolicy(data.(string))
	}
}

func ResumePolicyHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(runner.ResumeExists) {
			return data, nil
		}
		return runner.ParseResumePolicy(data.(string))
	}
}

func NamingHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(matrix.Positional) {
			return data, nil
		}
		return matrix.ParseNaming(data.(string))
	}
}
