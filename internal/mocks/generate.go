package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/workspace --output domain/workspace --outpkg workspacemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/program --output domain/program --outpkg programmock --filename repository_mock.go
